package server

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"alliance-tracker/internal/domain"
	"alliance-tracker/internal/repository"
	"alliance-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// TrackerServer is the HTTP surface: thin handlers that bind JSON, delegate to
// the service layer and map errors to status codes. No aggregation logic here.
type TrackerServer struct {
	rosterSvc *service.RosterService
	warSvc    *service.WarService
	seasonSvc *service.SeasonService
	importSvc *service.ImportService
	logger    zerolog.Logger
}

func NewTrackerServer(
	rosterSvc *service.RosterService,
	warSvc *service.WarService,
	seasonSvc *service.SeasonService,
	importSvc *service.ImportService,
	logger zerolog.Logger,
) *TrackerServer {
	return &TrackerServer{
		rosterSvc: rosterSvc,
		warSvc:    warSvc,
		seasonSvc: seasonSvc,
		importSvc: importSvc,
		logger:    logger,
	}
}

// Router builds the gin engine. CORS and request-id logging are applied
// outside, at the http.Server level.
func (s *TrackerServer) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	{
		v1.GET("/players", s.listPlayers)
		v1.POST("/players", s.createPlayer)
		v1.PUT("/players/:id", s.updatePlayer)
		v1.DELETE("/players/:id", s.deletePlayer)

		v1.GET("/wars", s.listWars)
		v1.POST("/wars", s.createWar)
		v1.POST("/wars/reorder", s.reorderWars)
		v1.GET("/wars/:id", s.getWar)
		v1.PUT("/wars/:id", s.updateWar)
		v1.DELETE("/wars/:id", s.deleteWar)

		v1.GET("/season/analytics", s.seasonAnalytics)
		v1.GET("/season/analytics/players/:id", s.playerSeason)
		v1.GET("/season/analytics/battlegroups/:bg", s.battlegroupSeason)

		v1.POST("/import/sync", s.importSync)
	}

	return r
}

type playerRequest struct {
	Name        string `json:"name" binding:"required"`
	Battlegroup int    `json:"battlegroup"`
}

func (s *TrackerServer) listPlayers(c *gin.Context) {
	players, err := s.rosterSvc.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if players == nil {
		players = []domain.Player{}
	}
	c.JSON(http.StatusOK, players)
}

func (s *TrackerServer) createPlayer(c *gin.Context) {
	var req playerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	player, err := s.rosterSvc.Create(c.Request.Context(), req.Name, req.Battlegroup)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, player)
}

func (s *TrackerServer) updatePlayer(c *gin.Context) {
	var req playerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	player, err := s.rosterSvc.Update(c.Request.Context(), c.Param("id"), req.Name, req.Battlegroup)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

func (s *TrackerServer) deletePlayer(c *gin.Context) {
	if err := s.rosterSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *TrackerServer) listWars(c *gin.Context) {
	wars, err := s.warSvc.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if wars == nil {
		wars = []domain.War{}
	}
	c.JSON(http.StatusOK, wars)
}

func (s *TrackerServer) getWar(c *gin.Context) {
	war, err := s.warSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, war)
}

func (s *TrackerServer) createWar(c *gin.Context) {
	var war domain.War
	if err := c.ShouldBindJSON(&war); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := s.warSvc.Create(c.Request.Context(), &war)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *TrackerServer) updateWar(c *gin.Context) {
	var war domain.War
	if err := c.ShouldBindJSON(&war); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	war.ID = c.Param("id")
	updated, err := s.warSvc.Update(c.Request.Context(), &war)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type reorderRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

func (s *TrackerServer) reorderWars(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.warSvc.Reorder(c.Request.Context(), req.IDs); err != nil {
		if errors.Is(err, repository.ErrInvalidOrder) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *TrackerServer) deleteWar(c *gin.Context) {
	if err := s.warSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *TrackerServer) seasonAnalytics(c *gin.Context) {
	snapshot, err := s.seasonSvc.Analytics(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *TrackerServer) playerSeason(c *gin.Context) {
	stats, err := s.seasonSvc.PlayerStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *TrackerServer) battlegroupSeason(c *gin.Context) {
	bg, err := strconv.Atoi(c.Param("bg"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "battlegroup must be an integer"})
		return
	}
	stats, err := s.seasonSvc.BattlegroupStats(c.Request.Context(), bg)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *TrackerServer) importSync(c *gin.Context) {
	result, err := s.importSvc.Sync(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *TrackerServer) fail(c *gin.Context, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	s.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
