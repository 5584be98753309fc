package vkdriver

import (
	"fmt"

	"github.com/vulkan-go/vulkan"
)

// APIError is a failed Vulkan call and its native status code.
type APIError struct {
	Op     string
	Result vulkan.Result
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, vulkan.Error(e.Result))
}

func (e *APIError) Unwrap() error {
	return vulkan.Error(e.Result)
}

// Code returns the VkResult value.
func (e *APIError) Code() int32 {
	return int32(e.Result)
}

// newError returns nil for VK_SUCCESS and an *APIError otherwise.
func newError(op string, res vulkan.Result) error {
	if res == vulkan.Success {
		return nil
	}
	return &APIError{Op: op, Result: res}
}
