package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/growsense/go-zfm/protocol"
	"github.com/growsense/go-zfm/zfm"
)

// Gateway serves the HTTP API over one sensor session. The protocol allows
// one outstanding command at a time, so every handler takes the sensor
// mutex for the whole operation; concurrent requests queue up behind it.
//
// Error mapping: request problems are 400, a search miss is 404, a refusal
// reported by the module is 422 with its confirmation code, a broken or
// silent serial link is 502, and an operation that outran its time budget
// is 504.
type Gateway struct {
	sensor *zfm.Sensor
	events *Publisher
	log    *logrus.Logger

	mu sync.Mutex

	opTimeout     time.Duration
	fingerTimeout time.Duration

	started time.Time
}

// NewGateway wires the sensor session, the event publisher (nil when MQTT
// is disabled) and the HTTP time budgets together.
func NewGateway(sensor *zfm.Sensor, events *Publisher, log *logrus.Logger, cfg HTTPConfig) *Gateway {
	return &Gateway{
		sensor:        sensor,
		events:        events,
		log:           log,
		opTimeout:     cfg.OperationTimeout,
		fingerTimeout: cfg.FingerTimeout,
		started:       time.Now(),
	}
}

// Router builds the gin engine with all routes registered.
func (g *Gateway) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", g.health)

	v1 := router.Group("/api/v1")
	{
		sensor := v1.Group("/sensor")
		{
			sensor.GET("", g.getInfo)
			sensor.GET("/count", g.getCount)
			sensor.GET("/slots", g.getSlots)
			sensor.POST("/enroll", g.postEnroll)
			sensor.POST("/identify", g.postIdentify)
			sensor.POST("/led", g.postLED)
			sensor.DELETE("/slots/:slot", g.deleteSlot)
			sensor.DELETE("/slots", g.deleteAll)
		}
	}

	return router
}

// withSensor runs one operation against the session, serialized and
// time-boxed. The request context rides along so a dropped client stops
// the polling loops.
func (g *Gateway) withSensor(parent context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	return fn(ctx)
}

// fail writes the error response for everything but the handler-specific
// outcomes (search miss, binding problems).
func (g *Gateway) fail(c *gin.Context, op string, err error) {
	status := http.StatusInternalServerError

	var cmdErr *protocol.CommandError
	var framingErr *protocol.FramingError
	var checksumErr *protocol.ChecksumError
	var timeoutErr *protocol.TimeoutError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.As(err, &cmdErr):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &framingErr), errors.As(err, &checksumErr), errors.As(err, &timeoutErr):
		status = http.StatusBadGateway
	}

	g.log.WithError(err).WithField("op", op).Error("sensor operation failed")

	resp := ErrorResponse{Error: err.Error()}
	if cmdErr != nil {
		resp.Code = uint8(cmdErr.Code)
	}
	var enrollErr *zfm.EnrollError
	if errors.As(err, &enrollErr) {
		resp.Step = enrollErr.Step
		resp.Capture = enrollErr.Capture
	}

	c.JSON(status, resp)
}

// ErrorResponse is the JSON error body. Code carries the module's
// confirmation code when the failure came from the sensor; Step and
// Capture name the failing enrollment stage.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    uint8  `json:"code,omitempty"`
	Step    string `json:"step,omitempty"`
	Capture int    `json:"capture,omitempty"`
}

// HealthResponse reports daemon liveness.
type HealthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// InfoResponse mirrors the module's system parameter block.
type InfoResponse struct {
	SystemID      string `json:"system_id"`
	Address       string `json:"address"`
	Capacity      uint16 `json:"capacity"`
	SecurityLevel uint16 `json:"security_level"`
	PacketSize    int    `json:"packet_size"`
	BaudRate      int    `json:"baud_rate"`
}

// CountResponse reports library usage.
type CountResponse struct {
	Count    uint16 `json:"count"`
	Capacity uint16 `json:"capacity"`
}

// SlotsResponse lists the occupied library slots.
type SlotsResponse struct {
	Slots []int `json:"slots"`
}

// MatchResponse reports an identification hit.
type MatchResponse struct {
	Slot  uint16 `json:"slot"`
	Score uint16 `json:"score"`
}

// EnrollRequest asks for an enrollment into a slot.
type EnrollRequest struct {
	Slot uint16 `json:"slot"`
}

// EnrollResponse confirms where the template landed.
type EnrollResponse struct {
	Slot uint16 `json:"slot"`
}

// LEDRequest drives the ring LED.
type LEDRequest struct {
	Mode  string `json:"mode" binding:"required"`
	Color string `json:"color"`
	Speed uint8  `json:"speed"`
	Count uint8  `json:"count"`
}

// DeleteResponse confirms how many slots were removed.
type DeleteResponse struct {
	Slot  uint16 `json:"slot"`
	Count uint16 `json:"count"`
}

func (g *Gateway) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(g.started).Seconds()),
	})
}

func (g *Gateway) getInfo(c *gin.Context) {
	var params *protocol.SystemParams
	err := g.withSensor(c.Request.Context(), g.opTimeout, func(ctx context.Context) error {
		var err error
		params, err = g.sensor.ReadSystemParams(ctx)
		return err
	})
	if err != nil {
		g.fail(c, "read system parameters", err)
		return
	}

	c.JSON(http.StatusOK, InfoResponse{
		SystemID:      strconv.FormatUint(uint64(params.SystemID), 16),
		Address:       "0x" + strconv.FormatUint(uint64(params.Address), 16),
		Capacity:      params.Capacity,
		SecurityLevel: params.SecurityLevel,
		PacketSize:    params.PacketSize,
		BaudRate:      params.BaudRate,
	})
}

func (g *Gateway) getCount(c *gin.Context) {
	var count uint16
	err := g.withSensor(c.Request.Context(), g.opTimeout, func(ctx context.Context) error {
		var err error
		count, err = g.sensor.TemplateCount(ctx)
		return err
	})
	if err != nil {
		g.fail(c, "template count", err)
		return
	}

	c.JSON(http.StatusOK, CountResponse{Count: count, Capacity: g.sensor.Capacity()})
}

func (g *Gateway) getSlots(c *gin.Context) {
	var slots []int
	err := g.withSensor(c.Request.Context(), g.opTimeout, func(ctx context.Context) error {
		var err error
		slots, err = g.sensor.Templates(ctx)
		return err
	})
	if err != nil {
		g.fail(c, "read index table", err)
		return
	}

	if slots == nil {
		slots = []int{}
	}
	c.JSON(http.StatusOK, SlotsResponse{Slots: slots})
}

func (g *Gateway) postEnroll(c *gin.Context) {
	var req EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	err := g.withSensor(c.Request.Context(), g.fingerTimeout, func(ctx context.Context) error {
		return g.sensor.Enroll(ctx, req.Slot)
	})
	if err != nil {
		g.fail(c, "enroll", err)
		return
	}

	g.events.Publish(EventEnroll, intPtr(int(req.Slot)), nil, nil)
	c.JSON(http.StatusCreated, EnrollResponse{Slot: req.Slot})
}

func (g *Gateway) postIdentify(c *gin.Context) {
	var result *protocol.SearchResult
	err := g.withSensor(c.Request.Context(), g.fingerTimeout, func(ctx context.Context) error {
		var err error
		result, err = g.sensor.Identify(ctx)
		return err
	})
	if protocol.IsNotFound(err) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no matching template", Code: uint8(protocol.CodeNotFound)})
		return
	}
	if err != nil {
		g.fail(c, "identify", err)
		return
	}

	g.events.Publish(EventIdentify, intPtr(int(result.Slot)), intPtr(int(result.Score)), nil)
	c.JSON(http.StatusOK, MatchResponse{Slot: result.Slot, Score: result.Score})
}

func (g *Gateway) deleteSlot(c *gin.Context) {
	slot, err := strconv.ParseUint(c.Param("slot"), 10, 16)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid slot: " + c.Param("slot")})
		return
	}

	count := uint64(1)
	if raw := c.Query("count"); raw != "" {
		count, err = strconv.ParseUint(raw, 10, 16)
		if err != nil || count == 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid count: " + raw})
			return
		}
	}

	err = g.withSensor(c.Request.Context(), g.opTimeout, func(ctx context.Context) error {
		return g.sensor.Delete(ctx, uint16(slot), uint16(count))
	})
	if err != nil {
		g.fail(c, "delete template", err)
		return
	}

	g.events.Publish(EventDelete, intPtr(int(slot)), nil, intPtr(int(count)))
	c.JSON(http.StatusOK, DeleteResponse{Slot: uint16(slot), Count: uint16(count)})
}

func (g *Gateway) deleteAll(c *gin.Context) {
	var count uint16
	err := g.withSensor(c.Request.Context(), g.opTimeout, func(ctx context.Context) error {
		var err error
		if count, err = g.sensor.TemplateCount(ctx); err != nil {
			return err
		}
		return g.sensor.Empty(ctx)
	})
	if err != nil {
		g.fail(c, "empty library", err)
		return
	}

	g.events.Publish(EventDelete, nil, nil, intPtr(int(count)))
	c.JSON(http.StatusOK, DeleteResponse{Count: count})
}

var ledModes = map[string]byte{
	"breathing":   protocol.LEDBreathing,
	"flashing":    protocol.LEDFlashing,
	"on":          protocol.LEDOn,
	"off":         protocol.LEDOff,
	"gradual-on":  protocol.LEDGradualOn,
	"gradual-off": protocol.LEDGradualOff,
}

var ledColors = map[string]byte{
	"red":    protocol.LEDRed,
	"blue":   protocol.LEDBlue,
	"purple": protocol.LEDPurple,
}

func (g *Gateway) postLED(c *gin.Context) {
	var req LEDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	mode, ok := ledModes[req.Mode]
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown LED mode: " + req.Mode})
		return
	}

	color := byte(protocol.LEDBlue)
	if req.Color != "" {
		if color, ok = ledColors[req.Color]; !ok {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown LED color: " + req.Color})
			return
		}
	}

	speed := req.Speed
	if speed == 0 {
		speed = 0x50
	}

	err := g.withSensor(c.Request.Context(), g.opTimeout, func(ctx context.Context) error {
		return g.sensor.SetAuraLED(ctx, mode, speed, color, req.Count)
	})
	if err != nil {
		g.fail(c, "set aura led", err)
		return
	}

	c.Status(http.StatusNoContent)
}
