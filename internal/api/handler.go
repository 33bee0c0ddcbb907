package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"penpals/internal/session"
	"penpals/internal/story"
	"penpals/internal/summary"
)

type Handler struct {
	sessions *session.Manager
	logger   *zap.Logger
}

func NewHandler(sessions *session.Manager, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{sessions: sessions, logger: logger}
}

// Router returns a gin engine with request logging and every playthrough
// route registered.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(h.logger))
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/healthz", h.health)
	r.GET("/regions", h.listRegions)

	p := r.Group("/playthroughs")
	p.POST("", h.createPlaythrough)
	p.GET("/:id", h.getPlaythrough)
	p.POST("/:id/region", h.selectRegion)
	p.POST("/:id/choice", h.submitChoice)
	p.POST("/:id/wallet", h.submitWalletOption)
	p.POST("/:id/continue", h.continueBeat)
	p.POST("/:id/restart", h.restart)
	p.GET("/:id/summary", h.getSummary)
}

type RegionResponse struct {
	ID          story.RegionID    `json:"id"`
	Name        string            `json:"name"`
	ThemeColor  string            `json:"theme_color"`
	Coordinates story.Coordinates `json:"coordinates"`
	Budget      int               `json:"budget"`
	Letters     int               `json:"letters"`
}

type SelectRegionRequest struct {
	Region string `json:"region" binding:"required"`
}

type ChoiceRequest struct {
	Choice string `json:"choice" binding:"required"`
}

type WalletRequest struct {
	Option string `json:"option" binding:"required"`
}

type SummaryResponse struct {
	Finished bool             `json:"finished"`
	Summary  *summary.Summary `json:"summary,omitempty"`
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "playthroughs": h.sessions.Len()})
}

func (h *Handler) listRegions(c *gin.Context) {
	regions := h.sessions.Catalog().Regions()
	out := make([]RegionResponse, 0, len(regions))
	for _, region := range regions {
		out = append(out, RegionResponse{
			ID:          region.ID,
			Name:        region.Name,
			ThemeColor:  region.ThemeColor,
			Coordinates: region.Coordinates,
			Budget:      region.Budget,
			Letters:     len(region.Letters),
		})
	}
	c.JSON(http.StatusOK, gin.H{"regions": out})
}

func (h *Handler) createPlaythrough(c *gin.Context) {
	p := h.sessions.Create()
	c.Header("Location", "/playthroughs/"+p.ID)
	c.JSON(http.StatusCreated, p.View())
}

func (h *Handler) getPlaythrough(c *gin.Context) {
	p, ok := h.playthrough(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p.View())
}

func (h *Handler) selectRegion(c *gin.Context) {
	p, ok := h.playthrough(c)
	if !ok {
		return
	}
	var req SelectRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, badRequest(err))
		return
	}
	view, err := p.SelectRegion(story.RegionID(req.Region))
	h.respond(c, view, err)
}

func (h *Handler) submitChoice(c *gin.Context) {
	p, ok := h.playthrough(c)
	if !ok {
		return
	}
	var req ChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, badRequest(err))
		return
	}
	view, err := p.SubmitChoice(req.Choice)
	h.respond(c, view, err)
}

func (h *Handler) submitWalletOption(c *gin.Context) {
	p, ok := h.playthrough(c)
	if !ok {
		return
	}
	var req WalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, badRequest(err))
		return
	}
	view, err := p.SubmitWalletOption(req.Option)
	h.respond(c, view, err)
}

func (h *Handler) continueBeat(c *gin.Context) {
	p, ok := h.playthrough(c)
	if !ok {
		return
	}
	view, err := p.Continue()
	h.respond(c, view, err)
}

func (h *Handler) restart(c *gin.Context) {
	p, ok := h.playthrough(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p.Restart())
}

func (h *Handler) getSummary(c *gin.Context) {
	p, ok := h.playthrough(c)
	if !ok {
		return
	}
	view := p.View()
	c.JSON(http.StatusOK, SummaryResponse{Finished: view.Finished, Summary: view.Summary})
}

func (h *Handler) playthrough(c *gin.Context) (*session.Playthrough, bool) {
	p, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return nil, false
	}
	return p, true
}

func (h *Handler) respond(c *gin.Context, view session.View, err error) {
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
