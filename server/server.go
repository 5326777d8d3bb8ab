package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/GPTx-global/gasoracle/app"
	"github.com/GPTx-global/gasoracle/oracled/health"
	"github.com/GPTx-global/gasoracle/x/gasprice/types"
)

const (
	maxBodySize    = 1 << 20
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// Host is the read side of the application
type Host interface {
	Query(req types.QueryMsg) ([]byte, error)
	LastBlockHeight() int64
	Subscribe(buffer int) (<-chan app.BlockEvents, func())
}

// Config holds the server settings
type Config struct {
	Address            string
	CORSAllowedOrigins []string
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Code      uint32 `json:"code"`
	Codespace string `json:"codespace"`
	Error     string `json:"error"`
}

// HealthResponse is the body of /health
type HealthResponse struct {
	Healthy bool                           `json:"healthy"`
	Height  int64                          `json:"height"`
	Checks  map[string]health.HealthStatus `json:"checks,omitempty"`
}

// Server serves the registry over HTTP and streams committed blocks over a
// websocket.
type Server struct {
	Router *mux.Router

	host     Host
	metrics  *telemetry.Metrics
	checker  *health.HealthChecker
	config   Config
	logger   log.Logger
	upgrader websocket.Upgrader

	mtx      sync.Mutex
	listener net.Listener
	httpSrv  *http.Server
	shutdown bool
}

// New creates the server. metrics and checker may be nil.
func New(logger log.Logger, config Config, host Host, metrics *telemetry.Metrics, checker *health.HealthChecker) *Server {
	s := &Server{
		Router:  mux.NewRouter(),
		host:    host,
		metrics: metrics,
		checker: checker,
		config:  config,
		logger:  logger.With("module", "api-server"),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	r := s.Router.PathPrefix("/" + types.ModuleName).Subrouter()
	r.HandleFunc("/config", s.queryHandler(func(*http.Request) (types.QueryMsg, error) {
		return &types.QueryConfigRequest{}, nil
	})).Methods(http.MethodGet)
	r.HandleFunc("/gas_price/{token}", s.queryHandler(func(req *http.Request) (types.QueryMsg, error) {
		return &types.QueryGasPriceRequest{Token: mux.Vars(req)["token"]}, nil
	})).Methods(http.MethodGet)
	r.HandleFunc("/contract_version", s.queryHandler(func(*http.Request) (types.QueryMsg, error) {
		return &types.QueryContractVersionRequest{}, nil
	})).Methods(http.MethodGet)
	r.HandleFunc("/smart", s.queryHandler(func(req *http.Request) (types.QueryMsg, error) {
		body, err := io.ReadAll(io.LimitReader(req.Body, maxBodySize))
		if err != nil {
			return nil, errorsmod.Wrap(sdkerrors.ErrInvalidRequest, err.Error())
		}
		return types.ParseQueryMsg(body)
	})).Methods(http.MethodPost)

	s.Router.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	s.Router.HandleFunc("/metrics", s.metricsHandler).Methods(http.MethodGet)
	s.Router.HandleFunc("/ws", s.websocketHandler)
}

// Handler returns the router wrapped with the CORS policy
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: s.config.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler(s.Router)
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	s.mtx.Lock()
	if s.shutdown {
		s.mtx.Unlock()
		return nil
	}
	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		s.mtx.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.Address, err)
	}
	s.listener = listener
	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	httpSrv := s.httpSrv
	s.mtx.Unlock()

	s.logger.Info("starting API server", "address", listener.Addr().String())
	if err := httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the listening address once Start has been called
func (s *Server) Addr() net.Addr {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting requests and waits for the active ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.mtx.Lock()
	s.shutdown = true
	httpSrv := s.httpSrv
	s.mtx.Unlock()

	if httpSrv == nil {
		return nil
	}
	return httpSrv.Shutdown(ctx)
}

func (s *Server) queryHandler(build func(*http.Request) (types.QueryMsg, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := build(r)
		if err != nil {
			s.writeError(w, err)
			return
		}

		bz, err := s.host.Query(req)
		if err != nil {
			s.writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(bz)
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	res := HealthResponse{
		Healthy: true,
		Height:  s.host.LastBlockHeight(),
	}
	if s.checker != nil {
		res.Healthy = s.checker.IsHealthy()
		res.Checks = s.checker.GetStatus()
	}

	status := http.StatusOK
	if !res.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, res)
}

func (s *Server) metricsHandler(w http.ResponseWriter, r *http.Request) {
	if s.metrics == nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "telemetry is disabled"})
		return
	}

	format := strings.TrimSpace(r.FormValue("format"))
	gr, err := s.metrics.Gather(format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("failed to gather metrics: %s", err)})
		return
	}

	w.Header().Set("Content-Type", gr.ContentType)
	_, _ = w.Write(gr.Metrics)
}

// websocketHandler streams the events of every committed block until the
// client goes away.
func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	blocks, unsubscribe := s.host.Subscribe(64)
	defer unsubscribe()

	// Incoming messages are ignored; reading detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case block, ok := <-blocks:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(wsWriteTimeout))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(block); err != nil {
				s.logger.Debug("websocket write failed", "err", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.config.CORSAllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	codespace, code, msg := errorsmod.ABCIInfo(err, false)
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("query failed", "err", err)
	}
	writeJSON(w, status, ErrorResponse{Code: code, Codespace: codespace, Error: msg})
}

// httpStatus maps registered errors to a status code
func httpStatus(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, types.ErrInvalidAddress),
		errors.Is(err, types.ErrInvalidNumber),
		errors.Is(err, sdkerrors.ErrJSONUnmarshal),
		errors.Is(err, sdkerrors.ErrUnknownRequest),
		errors.Is(err, sdkerrors.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
