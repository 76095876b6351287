// Package handlers 提供网关的 HTTP 端点处理器
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"

	apitypes "github.com/weisyn/ccip-gateway/internal/api/http/types"
	"github.com/weisyn/ccip-gateway/pkg/interfaces/ccip"
)

// jsonSuffix CCIP-Read 客户端在 GET URL 末尾追加的后缀
const jsonSuffix = ".json"

var (
	errInvalidSender   = errors.New("invalid sender address")
	errInvalidCallData = errors.New("invalid call data: expected 0x-prefixed hex")
)

// CCIPHandler EIP-3668 网关端点
//
//	GET  {prefix}/{sender}/{data}.json
//	POST {prefix}  {"sender": "0x…", "data": "0x…"}
type CCIPHandler struct {
	gateway      ccip.Gateway
	timeout      time.Duration // 单次调用超时，0 表示只受连接上下文约束
	maxBodyBytes int64
}

// NewCCIPHandler 创建网关端点处理器
func NewCCIPHandler(gateway ccip.Gateway, timeout time.Duration, maxBodyBytes int64) *CCIPHandler {
	return &CCIPHandler{gateway: gateway, timeout: timeout, maxBodyBytes: maxBodyBytes}
}

// RegisterRoutes 在给定前缀下注册 GET 与 POST 路由
func (h *CCIPHandler) RegisterRoutes(r gin.IRouter, prefix string) {
	postPath := prefix
	if postPath == "" {
		postPath = "/"
	}
	r.GET(prefix+"/:sender/:data", h.Get)
	r.POST(postPath, h.Post)
}

// Get 处理 GET 请求
func (h *CCIPHandler) Get(c *gin.Context) {
	data := strings.TrimSuffix(c.Param("data"), jsonSuffix)
	h.serve(c, c.Param("sender"), data)
}

// Post 处理 POST 请求
func (h *CCIPHandler) Post(c *gin.Context) {
	if h.maxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	}

	var req apitypes.CallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, apitypes.NewErrorResponse("request body too large"))
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, apitypes.NewErrorResponse("invalid request body"))
		return
	}
	h.serve(c, req.Sender, req.Payload())
}

func (h *CCIPHandler) serve(c *gin.Context, senderHex, dataHex string) {
	sender, callData, err := parseCall(senderHex, dataHex)
	if err != nil {
		c.JSON(http.StatusBadRequest, apitypes.NewErrorResponse(err.Error()))
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	status, body := apitypes.FromCCIPResponse(h.gateway.Call(ctx, sender, callData))
	c.JSON(status, body)
}

// parseCall 校验发送方地址并解码十六进制调用数据，缺少 0x 前缀时自动补齐
func parseCall(senderHex, dataHex string) (common.Address, []byte, error) {
	if !common.IsHexAddress(senderHex) {
		return common.Address{}, nil, errInvalidSender
	}
	if dataHex == "" {
		return common.Address{}, nil, errInvalidCallData
	}
	if !strings.HasPrefix(dataHex, "0x") && !strings.HasPrefix(dataHex, "0X") {
		dataHex = "0x" + dataHex
	}
	callData, err := hexutil.Decode(dataHex)
	if err != nil {
		return common.Address{}, nil, errInvalidCallData
	}
	return common.HexToAddress(senderHex), callData, nil
}
