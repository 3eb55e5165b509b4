package abi

import (
	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
)

// ResumeHttpRequest resumes a paused request.
func ResumeHttpRequest() error {
	return Wrap(FnContinueStream, proxywasm.ResumeHttpRequest())
}

// ResumeHttpResponse resumes a paused response.
func ResumeHttpResponse() error {
	return Wrap(FnContinueStream, proxywasm.ResumeHttpResponse())
}

// SendHttpResponse sends a local reply to the downstream.
func SendHttpResponse(statusCode uint32, headers entities.HeaderMap, body []byte) error {
	return Wrap(FnSendLocalResponse, proxywasm.SendHttpResponse(statusCode, headers.Pairs(), body, -1))
}

// ContinueTcpStream resumes a paused connection.
func ContinueTcpStream() error {
	return Wrap(FnContinueStream, proxywasm.ContinueTcpStream())
}

// CloseDownstream closes the downstream side of a connection.
func CloseDownstream() error {
	return Wrap(FnCloseStream, proxywasm.CloseDownstream())
}

// CloseUpstream closes the upstream side of a connection.
func CloseUpstream() error {
	return Wrap(FnCloseStream, proxywasm.CloseUpstream())
}
