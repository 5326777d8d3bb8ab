package main

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestGasoracled(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "gasoracled Suite")
}
