package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"daemon/internal/usecase"
	"daemon/pkg/logger"

	"github.com/gin-gonic/gin"
)

// JSON-RPC 2.0 error codes reserved by the tool protocol.
const (
	CodeInvalidParams = -32602
	CodeInternalError = -32603
)

const defaultLimit = 50

// Config is the immutable MCP surface configuration, passed in explicitly so
// each mode is unit-testable without global state.
type Config struct {
	ToolPrefix string
	MaxLimit   int
}

// Adapter exposes public endpoint data as MCP tools. Every call goes through
// the same visibility and privacy pipeline as REST, with the viewer forced to
// anonymous: the tool surface never returns non-public data, regardless of
// any credentials the caller presents.
type Adapter struct {
	dataUseCase usecase.DataUseCase
	cfg         Config
	logger      *logger.Logger
}

func NewAdapter(dataUseCase usecase.DataUseCase, cfg Config, logger *logger.Logger) *Adapter {
	if cfg.ToolPrefix == "" {
		cfg.ToolPrefix = "daemon_"
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	return &Adapter{
		dataUseCase: dataUseCase,
		cfg:         cfg,
		logger:      logger,
	}
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type toolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type toolResult struct {
	Content []toolContent `json:"content"`
	IsError bool          `json:"is_error"`
}

type toolDescriptor struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

type callArguments struct {
	Limit      *int  `json:"limit"`
	ActiveOnly *bool `json:"active_only"`
}

type callRequest struct {
	JSONRPC   string        `json:"jsonrpc"`
	ID        interface{}   `json:"id"`
	Name      string        `json:"name"`
	Arguments callArguments `json:"arguments"`
}

type listRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	ID      interface{} `json:"id"`
}

func rpcSuccess(id interface{}, result interface{}) gin.H {
	return gin.H{"jsonrpc": "2.0", "id": id, "result": result}
}

func rpcFailure(id interface{}, rpcErr *rpcError) gin.H {
	return gin.H{"jsonrpc": "2.0", "id": id, "error": rpcErr}
}

var argSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"limit": map[string]interface{}{
			"type":        "integer",
			"description": "Maximum number of entries to return",
		},
		"active_only": map[string]interface{}{
			"type":        "boolean",
			"description": "Reserved; inactive entries are always excluded",
		},
	},
}

// ToolsList handles POST /mcp/tools/list.
func (a *Adapter) ToolsList(c *gin.Context) {
	var req listRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, rpcFailure(nil, &rpcError{Code: CodeInvalidParams, Message: "invalid request body"}))
		return
	}

	tools, rpcErr := a.describeTools()
	if rpcErr != nil {
		c.JSON(http.StatusOK, rpcFailure(req.ID, rpcErr))
		return
	}

	c.JSON(http.StatusOK, rpcSuccess(req.ID, gin.H{"tools": tools}))
}

// ToolsCall handles POST /mcp/tools/call with the JSON-RPC envelope.
func (a *Adapter) ToolsCall(c *gin.Context) {
	var req callRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, rpcFailure(nil, &rpcError{Code: CodeInvalidParams, Message: "invalid request body"}))
		return
	}

	result, rpcErr := a.invoke(req.Name, req.Arguments)
	if rpcErr != nil {
		c.JSON(http.StatusOK, rpcFailure(req.ID, rpcErr))
		return
	}

	c.JSON(http.StatusOK, rpcSuccess(req.ID, result))
}

// CallTool handles POST /mcp/tools/{tool_name}, the REST-shaped alias that
// returns the unwrapped result object.
func (a *Adapter) CallTool(c *gin.Context) {
	// Bind whenever a body is present; ContentLength is -1 for chunked
	// requests, so it cannot gate the parse. An empty body means no args.
	var args callArguments
	if c.Request.Body != nil {
		if err := c.ShouldBindJSON(&args); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusOK, gin.H{"error": &rpcError{Code: CodeInvalidParams, Message: "invalid request body"}})
			return
		}
	}

	result, rpcErr := a.invoke(c.Param("tool_name"), args)
	if rpcErr != nil {
		c.JSON(http.StatusOK, gin.H{"error": rpcErr})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (a *Adapter) describeTools() ([]toolDescriptor, *rpcError) {
	endpoints, err := a.dataUseCase.ListPublicEndpoints()
	if err != nil {
		a.logger.Error("Failed to list endpoints for MCP: %v", err)
		return nil, &rpcError{Code: CodeInternalError, Message: "internal error"}
	}

	tools := []toolDescriptor{
		{
			Name:        a.cfg.ToolPrefix + "info",
			Description: "Describe this daemon instance and its available tools",
			InputSchema: map[string]interface{}{"type": "object", "properties": map[string]interface{}{}},
		},
	}

	for _, endpoint := range endpoints {
		description := endpoint.Description
		if description == "" {
			description = fmt.Sprintf("List public %s entries", endpoint.Name)
		}
		tools = append(tools, toolDescriptor{
			Name:        a.cfg.ToolPrefix + endpoint.Name,
			Description: description,
			InputSchema: argSchema,
		})
	}

	return tools, nil
}

func (a *Adapter) invoke(name string, args callArguments) (*toolResult, *rpcError) {
	if name == a.cfg.ToolPrefix+"info" {
		return a.info()
	}

	if !strings.HasPrefix(name, a.cfg.ToolPrefix) {
		return nil, &rpcError{Code: CodeInvalidParams, Message: fmt.Sprintf("unknown tool: %s", name)}
	}
	endpointName := strings.TrimPrefix(name, a.cfg.ToolPrefix)

	limit := defaultLimit
	if args.Limit != nil {
		if *args.Limit <= 0 {
			return nil, &rpcError{Code: CodeInvalidParams, Message: "limit must be a positive integer"}
		}
		limit = *args.Limit
	}
	if limit > a.cfg.MaxLimit {
		limit = a.cfg.MaxLimit
	}

	entries, err := a.dataUseCase.ListPublicEntries(endpointName, limit)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			return nil, &rpcError{Code: CodeInvalidParams, Message: fmt.Sprintf("unknown tool: %s", name)}
		}
		a.logger.Error("MCP tool %s failed: %v", name, err)
		return nil, &rpcError{Code: CodeInternalError, Message: "internal error"}
	}

	return textResult(map[string]interface{}{
		"endpoint": endpointName,
		"count":    len(entries),
		"entries":  entries,
	})
}

// info is exempt from record-level filtering: it reports endpoint metadata,
// not user data, and always succeeds.
func (a *Adapter) info() (*toolResult, *rpcError) {
	endpoints, err := a.dataUseCase.ListPublicEndpoints()
	if err != nil {
		endpoints = nil
	}

	names := make([]string, 0, len(endpoints))
	for _, endpoint := range endpoints {
		names = append(names, endpoint.Name)
	}

	return textResult(map[string]interface{}{
		"service":     "daemon",
		"tool_prefix": a.cfg.ToolPrefix,
		"endpoints":   names,
	})
}

func textResult(payload map[string]interface{}) (*toolResult, *rpcError) {
	text, err := json.Marshal(payload)
	if err != nil {
		return nil, &rpcError{Code: CodeInternalError, Message: "failed to encode result"}
	}

	return &toolResult{
		Content: []toolContent{{Type: "text", Text: string(text)}},
		IsError: false,
	}, nil
}
