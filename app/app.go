package app

import (
	"fmt"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/store"
	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/tendermint/tendermint/libs/log"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"
	dbm "github.com/tendermint/tm-db"

	"github.com/GPTx-global/gasoracle/x/gasprice"
	"github.com/GPTx-global/gasoracle/x/gasprice/keeper"
	"github.com/GPTx-global/gasoracle/x/gasprice/types"
)

const (
	// Name is the application name, also used for the data directory and metrics prefix.
	Name = "gasoracle"

	// DefaultChainID is reported in every block header unless overridden.
	DefaultChainID = "gasoracle-local"
)

// BlockEvents are the events emitted by one committed delivery.
type BlockEvents struct {
	Height int64            `json:"height"`
	Time   time.Time        `json:"time"`
	Events sdk.StringEvents `json:"events"`
}

// App is a single process host for the gasprice module. Every delivery runs
// on a cached branch of the multistore and becomes a new block when it
// succeeds; a failed delivery leaves no trace.
type App struct {
	mtx sync.Mutex

	db     dbm.DB
	cms    storetypes.CommitMultiStore
	api    types.API
	keeper keeper.Keeper

	handler gasprice.Handler
	querier gasprice.Querier

	logger  log.Logger
	chainID string
	clock   func() time.Time

	subscribers map[int]chan BlockEvents
	nextSubID   int
	closed      bool
}

// Option configures an App.
type Option func(*App)

// WithClock sets the source of block times.
func WithClock(clock func() time.Time) Option {
	return func(app *App) { app.clock = clock }
}

// WithChainID sets the chain id written into block headers.
func WithChainID(chainID string) Option {
	return func(app *App) { app.chainID = chainID }
}

// WithLogger sets the application logger.
func WithLogger(logger log.Logger) Option {
	return func(app *App) { app.logger = logger }
}

// WithAPI replaces the address and decimal services handed to the keeper.
func WithAPI(api types.API) Option {
	return func(app *App) { app.api = api }
}

// New mounts the gasprice store on db and loads the latest committed version.
func New(db dbm.DB, opts ...Option) (*App, error) {
	storeKey := sdk.NewKVStoreKey(types.StoreKey)

	app := &App{
		db:          db,
		cms:         store.NewCommitMultiStore(db),
		api:         types.DefaultAPI{},
		logger:      log.NewNopLogger(),
		chainID:     DefaultChainID,
		clock:       time.Now,
		subscribers: make(map[int]chan BlockEvents),
	}
	for _, opt := range opts {
		opt(app)
	}

	app.keeper = keeper.NewKeeper(types.ModuleCdc, storeKey, app.api)
	app.handler = gasprice.NewHandler(app.keeper)
	app.querier = gasprice.NewQuerier(app.keeper)

	app.cms.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	if err := app.cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load latest version: %w", err)
	}

	app.logger.Info("application loaded", "height", app.cms.LastCommitID().Version, "chain_id", app.chainID)
	return app, nil
}

// OpenDB opens the goleveldb database kept under dir.
func OpenDB(dir string) (dbm.DB, error) {
	return dbm.NewDB(Name, dbm.GoLevelDBBackend, dir)
}

// Logger returns the application logger.
func (app *App) Logger() log.Logger {
	return app.logger.With("module", "app")
}

// LastBlockHeight returns the height of the last committed block.
func (app *App) LastBlockHeight() int64 {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	return app.cms.LastCommitID().Version
}

// Instantiated reports whether the registry has an owner.
func (app *App) Instantiated() bool {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	ctx, _ := app.newContext(app.cms.LastCommitID().Version)
	return app.keeper.HasConfig(ctx)
}

// Deliver runs msg in a new block. State changes are committed only when the
// handler succeeds.
func (app *App) Deliver(msg types.Msg) (*sdk.Result, error) {
	defer telemetry.MeasureSince(time.Now(), Name, "deliver")

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	app.mtx.Lock()
	defer app.mtx.Unlock()

	if app.closed {
		return nil, errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "application is closed")
	}

	ctx, cache := app.newContext(app.cms.LastCommitID().Version + 1)

	if _, ok := msg.(*types.MsgInstantiate); ok && app.keeper.HasConfig(ctx) {
		return nil, errorsmod.Wrap(types.ErrAlreadyInstantiated, "owner already set")
	}

	res, err := app.handler(ctx, msg)
	if err != nil {
		app.Logger().Debug("delivery failed", "type", msg.Type(), "err", err)
		telemetry.IncrCounter(1, Name, "deliver", "failed")
		return nil, err
	}

	cache.Write()
	app.commit(ctx, res)
	return res, nil
}

// Query answers req against the last committed state. The query context
// carries the current clock time.
func (app *App) Query(req types.QueryMsg) ([]byte, error) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	if app.closed {
		return nil, errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "application is closed")
	}

	ctx, _ := app.newContext(app.cms.LastCommitID().Version)
	return app.querier(ctx, req)
}

// InitChain loads a genesis state into an uninstantiated store and commits it
// as a block.
func (app *App) InitChain(genState types.GenesisState) (err error) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	ctx, cache := app.newContext(app.cms.LastCommitID().Version + 1)
	if app.keeper.HasConfig(ctx) {
		return errorsmod.Wrap(types.ErrAlreadyInstantiated, "cannot import genesis over existing state")
	}

	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = rerr
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()

	gasprice.InitGenesis(ctx, app.keeper, genState)
	cache.Write()
	app.commit(ctx, &sdk.Result{})
	return nil
}

// ExportGenesis returns the committed module state.
func (app *App) ExportGenesis() types.GenesisState {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	ctx, _ := app.newContext(app.cms.LastCommitID().Version)
	return gasprice.ExportGenesis(ctx, app.keeper)
}

// Subscribe returns a channel receiving the events of every committed block
// and a function releasing it. Slow subscribers miss blocks rather than
// stalling deliveries.
func (app *App) Subscribe(buffer int) (<-chan BlockEvents, func()) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	id := app.nextSubID
	app.nextSubID++

	ch := make(chan BlockEvents, buffer)
	app.subscribers[id] = ch

	return ch, func() {
		app.mtx.Lock()
		defer app.mtx.Unlock()

		if sub, ok := app.subscribers[id]; ok {
			delete(app.subscribers, id)
			close(sub)
		}
	}
}

// Close releases subscribers and the underlying database.
func (app *App) Close() error {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	if app.closed {
		return nil
	}
	app.closed = true

	for id, sub := range app.subscribers {
		delete(app.subscribers, id)
		close(sub)
	}
	return app.db.Close()
}

// newContext returns a context over a cached branch of the committed state.
func (app *App) newContext(height int64) (sdk.Context, storetypes.CacheMultiStore) {
	cache := app.cms.CacheMultiStore()
	header := tmproto.Header{
		ChainID: app.chainID,
		Height:  height,
		Time:    app.clock().UTC(),
	}
	return sdk.NewContext(cache, header, false, app.logger), cache
}

// commit must be called with mtx held.
func (app *App) commit(ctx sdk.Context, res *sdk.Result) {
	commitID := app.cms.Commit()

	app.Logger().Info("committed block", "height", commitID.Version, "hash", fmt.Sprintf("%X", commitID.Hash))

	block := BlockEvents{
		Height: commitID.Version,
		Time:   ctx.BlockTime(),
		Events: sdk.StringifyEvents(res.Events),
	}
	for _, sub := range app.subscribers {
		select {
		case sub <- block:
		default:
			app.Logger().Debug("dropping block events for slow subscriber", "height", block.Height)
		}
	}
}
