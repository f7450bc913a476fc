package blockchain

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/swagftw/pychain/pkg/blockchain"
	"github.com/swagftw/pychain/types"
	"github.com/swagftw/pychain/utl/server"
	"github.com/swagftw/pychain/utl/server/fault"
)

type httpHandler struct {
	service types.ChainService
}

// NewHTTP initializes all the handlers.
func NewHTTP(v1Group *echo.Group, service types.ChainService) {
	h := &httpHandler{service: service}
	v1Group.GET("/ping", h.ping)

	chainGroup := v1Group.Group("/chain")
	chainGroup.GET("", h.getBlockchain)
	chainGroup.GET("/blocks/:hash", h.getBlock)
	chainGroup.POST("/blocks", h.addBlock)
	chainGroup.GET("/records", h.getRecords)
	chainGroup.GET("/validate", h.validate)
	chainGroup.GET("/difficulty", h.getDifficulty)
	chainGroup.PUT("/difficulty", h.setDifficulty)
}

// ping is a simple health check endpoint.
func (h *httpHandler) ping(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "pong")
}

// getBlockchain returns the blockchain.
func (h *httpHandler) getBlockchain(ctx echo.Context) error {
	resp, err := h.service.GetBlocks(server.ToGoContext(ctx))
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, resp)
}

// getBlock returns a single block by hash.
func (h *httpHandler) getBlock(ctx echo.Context) error {
	resp, err := h.service.GetBlock(server.ToGoContext(ctx), ctx.Param("hash"))
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, resp)
}

// addBlock mines a block for the posted record and appends it.
func (h *httpHandler) addBlock(ctx echo.Context) error {
	addRecord := new(types.AddRecord)

	if err := ctx.Bind(addRecord); err != nil {
		return err
	}

	resp, err := h.service.AddRecord(server.ToGoContext(ctx), addRecord)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusCreated, resp)
}

// getRecords returns the blocks sent or received by the party query param.
func (h *httpHandler) getRecords(ctx echo.Context) error {
	resp, err := h.service.GetRecords(server.ToGoContext(ctx), ctx.QueryParam("party"))
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, resp)
}

func (h *httpHandler) validate(ctx echo.Context) error {
	resp, err := h.service.Validate(server.ToGoContext(ctx))
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, resp)
}

func (h *httpHandler) getDifficulty(ctx echo.Context) error {
	resp, err := h.service.GetDifficulty(server.ToGoContext(ctx))
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, resp)
}

func (h *httpHandler) setDifficulty(ctx echo.Context) error {
	difficulty := new(types.Difficulty)

	if err := ctx.Bind(difficulty); err != nil {
		return err
	}

	resp, err := h.service.SetDifficulty(server.ToGoContext(ctx), difficulty)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, resp)
}

func toHTTPError(err error) error {
	switch {
	case blockchain.IsConstructionError(err):
		return fault.Wrap("INVALID_INPUT", http.StatusBadRequest, err)
	case errors.Is(err, blockchain.ErrInvalidDifficulty):
		return fault.Wrap("INVALID_DIFFICULTY", http.StatusBadRequest, err)
	case errors.Is(err, types.ErrPartyRequired):
		return fault.Wrap("PARTY_REQUIRED", http.StatusBadRequest, err)
	case errors.Is(err, blockchain.ErrBlockNotFound):
		return fault.Wrap("BLOCK_NOT_FOUND", http.StatusNotFound, err)
	case errors.Is(err, blockchain.ErrMiningAborted):
		return fault.Wrap("MINING_ABORTED", http.StatusServiceUnavailable, err)
	default:
		return err
	}
}
