// Package rest exposes the lobby and game operations over HTTP for
// clients that do not speak NATS. All table state flows through the
// registry; this layer only binds payloads and maps errors to status
// codes.
package rest

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"cardroom.io/holdem/game"
	"cardroom.io/holdem/lobby"
	"cardroom.io/holdem/logging"
	"cardroom.io/holdem/registry"
	"cardroom.io/holdem/util"
)

var restLogger = logging.GetZeroLogger("rest::server", nil)

type appError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server routes HTTP requests to a session registry.
type Server struct {
	reg     *registry.Registry
	limiter *rate.Limiter
}

func NewServer(reg *registry.Registry) *Server {
	return &Server{
		reg: reg,
		// create is the only endpoint that allocates sessions; keep a
		// burst-tolerant global cap on it
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

// Run blocks serving HTTP on the given port.
func (s *Server) Run(port int) error {
	r := gin.Default()

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/lobby", s.createLobby)
	r.GET("/lobby/:lobbyId", s.lobbySnapshot)
	r.POST("/lobby/:lobbyId/join", s.joinLobby)
	r.POST("/lobby/:lobbyId/leave", s.leaveLobby)
	r.POST("/lobby/:lobbyId/cancel", s.cancelLobby)
	r.POST("/lobby/:lobbyId/start", s.startGame)
	r.POST("/game/:gameId/action", s.playerAction)
	r.GET("/game/:gameId", s.gameSnapshot)
	r.GET("/game/:gameId/standings", s.standings)

	return r.Run(fmt.Sprintf(":%d", port))
}

func reject(c *gin.Context, err error) {
	c.IndentedJSON(statusFor(err), appError{
		Code:    statusFor(err),
		Message: err.Error(),
	})
}

// statusFor maps the typed errors raised by the lobby, game and
// registry packages onto HTTP status codes.
func statusFor(err error) int {
	switch err.(type) {
	case registry.SessionNotFoundError:
		return http.StatusNotFound
	case registry.RegistryFullError:
		return http.StatusServiceUnavailable
	case lobby.DuplicateSeatError,
		lobby.LobbyFullError,
		lobby.LobbyClosedError,
		lobby.SeatNotReservedError,
		lobby.InsufficientSeatsError:
		return http.StatusConflict
	case lobby.BuyInOutOfRangeError,
		game.InvalidActionError,
		game.InvalidGameConfigError,
		game.UnexpectedHandStatusError:
		return http.StatusBadRequest
	case lobby.NotOwnerError:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

type createLobbyRequest struct {
	OwnerID    uint64 `json:"ownerId"`
	OwnerName  string `json:"ownerName"`
	BuyIn      int64  `json:"buyIn"`
	MaxSeats   uint32 `json:"maxSeats"`
	MinPlayers uint32 `json:"minPlayers"`
	SmallBlind int64  `json:"smallBlind"`
	BigBlind   int64  `json:"bigBlind"`
	MinBuyIn   int64  `json:"minBuyIn"`
	MaxBuyIn   int64  `json:"maxBuyIn"`

	// seconds; falls back to the server-wide default when omitted
	ActionTimeout int `json:"actionTimeout,omitempty"`
}

func (s *Server) createLobby(c *gin.Context) {
	if !s.limiter.Allow() {
		c.IndentedJSON(http.StatusTooManyRequests, appError{
			Code:    http.StatusTooManyRequests,
			Message: "Too many lobby create requests",
		})
		return
	}

	var req createLobbyRequest
	if err := c.BindJSON(&req); err != nil {
		restLogger.Error().Err(err).Msg("Failed to parse lobby config")
		reject(c, err)
		return
	}

	actionTimeout := req.ActionTimeout
	if actionTimeout <= 0 {
		actionTimeout = util.Env.GetActionTimeoutSec()
	}
	config := &game.GameConfig{
		MaxSeats:      req.MaxSeats,
		MinPlayers:    req.MinPlayers,
		SmallBlind:    req.SmallBlind,
		BigBlind:      req.BigBlind,
		MinBuyIn:      req.MinBuyIn,
		MaxBuyIn:      req.MaxBuyIn,
		ActionTimeout: time.Duration(actionTimeout) * time.Second,
	}
	lobbyID, err := s.reg.CreateLobby(c.Request.Context(), req.OwnerID, req.OwnerName, req.BuyIn, config)
	if err != nil {
		reject(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lobbyId": lobbyID})
}

type joinLobbyRequest struct {
	PlayerID uint64 `json:"playerId"`
	Name     string `json:"name"`
	BuyIn    int64  `json:"buyIn"`
}

func (s *Server) joinLobby(c *gin.Context) {
	var req joinLobbyRequest
	if err := c.BindJSON(&req); err != nil {
		reject(c, err)
		return
	}
	lobbyID := c.Param("lobbyId")
	if err := s.reg.JoinLobby(c.Request.Context(), lobbyID, req.PlayerID, req.Name, req.BuyIn); err != nil {
		reject(c, err)
		return
	}
	c.Status(http.StatusOK)
}

type playerIDRequest struct {
	PlayerID uint64 `json:"playerId"`
}

func (s *Server) leaveLobby(c *gin.Context) {
	var req playerIDRequest
	if err := c.BindJSON(&req); err != nil {
		reject(c, err)
		return
	}
	if err := s.reg.LeaveLobby(c.Request.Context(), c.Param("lobbyId"), req.PlayerID); err != nil {
		reject(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) cancelLobby(c *gin.Context) {
	var req playerIDRequest
	if err := c.BindJSON(&req); err != nil {
		reject(c, err)
		return
	}
	if err := s.reg.CancelLobby(c.Request.Context(), c.Param("lobbyId"), req.PlayerID); err != nil {
		reject(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) startGame(c *gin.Context) {
	var req playerIDRequest
	if err := c.BindJSON(&req); err != nil {
		reject(c, err)
		return
	}
	lobbyID := c.Param("lobbyId")
	if err := s.reg.StartGame(c.Request.Context(), lobbyID, req.PlayerID); err != nil {
		reject(c, err)
		return
	}
	// the game keeps the lobby's ID
	c.JSON(http.StatusOK, gin.H{"gameId": lobbyID})
}

func (s *Server) lobbySnapshot(c *gin.Context) {
	snapshot, err := s.reg.LobbySnapshot(c.Param("lobbyId"))
	if err != nil {
		reject(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

type playerActionRequest struct {
	PlayerID uint64 `json:"playerId"`
	Action   string `json:"action"`
	Amount   int64  `json:"amount"`
}

func (s *Server) playerAction(c *gin.Context) {
	var req playerActionRequest
	if err := c.BindJSON(&req); err != nil {
		reject(c, err)
		return
	}
	actionType, ok := game.ParseActionType(req.Action)
	if !ok {
		reject(c, game.InvalidActionError{Msg: fmt.Sprintf("Unknown action %s", req.Action)})
		return
	}
	gameID := c.Param("gameId")
	if err := s.reg.PlayerActed(gameID, req.PlayerID, actionType, req.Amount); err != nil {
		restLogger.Info().
			Err(err).
			Str(logging.GameIDKey, gameID).
			Uint64(logging.PlayerIDKey, req.PlayerID).
			Msg("Action rejected")
		reject(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) gameSnapshot(c *gin.Context) {
	var forPlayerID uint64
	if v := c.Query("playerId"); v != "" {
		fmt.Sscanf(v, "%d", &forPlayerID)
	}
	snapshot, err := s.reg.GameSnapshot(c.Param("gameId"), forPlayerID)
	if err != nil {
		reject(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) standings(c *gin.Context) {
	gameID := c.Param("gameId")
	record, ok := s.reg.RecentStandings(gameID)
	if !ok {
		reject(c, registry.SessionNotFoundError{SessionID: gameID})
		return
	}
	c.JSON(http.StatusOK, record)
}
