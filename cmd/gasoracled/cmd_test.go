package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"

	"github.com/GPTx-global/gasoracle/config"
	"github.com/GPTx-global/gasoracle/x/gasprice/types"
)

// run executes the binary's root command against home and returns stdout
func run(home string, args ...string) (string, error) {
	viper.Reset()

	rootCmd := NewRootCmd()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(append(args, "--home", home))

	err := Execute(rootCmd)
	return stdout.String(), err
}

func tempDir() string {
	dir, err := os.MkdirTemp("", "gasoracled")
	Expect(err).NotTo(HaveOccurred())
	DeferCleanup(os.RemoveAll, dir)
	return dir
}

func addKey(home, name string) string {
	_, err := run(home, "keys", "add", name)
	Expect(err).NotTo(HaveOccurred())

	out, err := run(home, "keys", "show", name, "--address")
	Expect(err).NotTo(HaveOccurred())
	return strings.TrimSpace(out)
}

var _ = Describe("gasoracled", func() {
	var (
		home  string
		owner string
	)

	BeforeEach(func() {
		home = tempDir()
		owner = addKey(home, "owner")
	})

	Describe("init", func() {
		It("writes the config and instantiates with the --from key as owner", func() {
			out, err := run(home, "init", "--from", "owner")
			Expect(err).NotTo(HaveOccurred())
			Expect(gjson.Get(out, "height").Int()).To(Equal(int64(1)))
			Expect(gjson.Get(out, "events.0.type").String()).To(Equal(types.EventTypeInstantiate))

			cfg, err := config.ReadConfigFile(filepath.Join(home, config.FileName))
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Keyring.Backend).To(Equal("test"))

			out, err = run(home, "query", "gasprice", "config")
			Expect(err).NotTo(HaveOccurred())
			Expect(gjson.Get(out, "owner").String()).To(Equal(owner))
		})

		It("accepts an explicit owner", func() {
			other := addKey(home, "other")

			_, err := run(home, "init", other, "--from", "owner")
			Expect(err).NotTo(HaveOccurred())

			out, err := run(home, "query", "gasprice", "config", "--output", "yaml")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("owner: " + other + "\n"))
		})

		It("refuses to instantiate twice", func() {
			_, err := run(home, "init", "--from", "owner")
			Expect(err).NotTo(HaveOccurred())

			_, err = run(home, "init", "--from", "owner")
			Expect(err).To(MatchError(types.ErrAlreadyInstantiated))
		})

		It("fails without --from", func() {
			_, err := run(home, "init")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("after init", func() {
		BeforeEach(func() {
			_, err := run(home, "init", "--from", "owner")
			Expect(err).NotTo(HaveOccurred())
		})

		It("updates and queries a gas price", func() {
			out, err := run(home, "tx", "gasprice", "update-gas-price", "ATOM", "1.25", "--from", "owner")
			Expect(err).NotTo(HaveOccurred())
			Expect(gjson.Get(out, "height").Int()).To(Equal(int64(2)))

			out, err = run(home, "q", "gasprice", "gas-price", "ATOM")
			Expect(err).NotTo(HaveOccurred())
			Expect(gjson.Get(out, "gas_price").String()).To(Equal("1.250000000000000000"))
			Expect(gjson.Get(out, "last_updated").Int()).To(BeNumerically(">", 0))
		})

		It("rejects a sender that is not the owner", func() {
			addKey(home, "stranger")

			_, err := run(home, "tx", "gasprice", "update-gas-price", "ATOM", "1.25", "--from", "stranger")
			Expect(err).To(MatchError(types.ErrUnauthorized))

			_, err = run(home, "query", "gasprice", "gas-price", "ATOM")
			Expect(err).To(MatchError(types.ErrNotFound))
		})

		It("hands ownership over", func() {
			next := addKey(home, "next")

			_, err := run(home, "tx", "gasprice", "update-config", next, "--from", "owner")
			Expect(err).NotTo(HaveOccurred())

			_, err = run(home, "tx", "gasprice", "update-gas-price", "ATOM", "1", "--from", "owner")
			Expect(err).To(MatchError(types.ErrUnauthorized))

			_, err = run(home, "tx", "gasprice", "update-gas-price", "ATOM", "1", "--from", "next")
			Expect(err).NotTo(HaveOccurred())
		})

		It("exports a genesis that restores into a fresh home", func() {
			_, err := run(home, "tx", "gasprice", "update-gas-price", "ATOM", "0.025", "--from", "owner")
			Expect(err).NotTo(HaveOccurred())

			exported, err := run(home, "export")
			Expect(err).NotTo(HaveOccurred())
			Expect(gjson.Get(exported, "owner").String()).To(Equal(owner))
			Expect(gjson.Get(exported, "gas_prices.0.token").String()).To(Equal("ATOM"))

			genesisFile := filepath.Join(tempDir(), "genesis.json")
			Expect(os.WriteFile(genesisFile, []byte(exported), 0o600)).To(Succeed())

			restored := tempDir()
			_, err = run(restored, "init", "--genesis", genesisFile)
			Expect(err).NotTo(HaveOccurred())

			out, err := run(restored, "query", "gasprice", "gas-price", "ATOM")
			Expect(err).NotTo(HaveOccurred())
			Expect(gjson.Get(out, "gas_price").String()).To(Equal("0.025000000000000000"))
			Expect(gjson.Get(out, "last_updated").String()).To(Equal(gjson.Get(exported, "gas_prices.0.last_updated").String()))
		})

		It("reports the contract version", func() {
			out, err := run(home, "query", "gasprice", "contract-version")
			Expect(err).NotTo(HaveOccurred())
			Expect(gjson.Get(out, "contract").String()).To(Equal(types.ContractName))
		})
	})

	It("does not open the database for key commands", func() {
		_, err := os.Stat(filepath.Join(home, config.DataDir))
		Expect(os.IsNotExist(err)).To(BeTrue())
	})
})
