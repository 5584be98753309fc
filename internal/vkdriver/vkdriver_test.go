package vkdriver

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vulkan-go/vulkan"

	"vksnake/internal/render"
)

func TestChooseSurfaceFormat(t *testing.T) {
	preferred := vulkan.SurfaceFormat{Format: vulkan.FormatB8g8r8a8Unorm, ColorSpace: vulkan.ColorSpaceSrgbNonlinear}
	other := vulkan.SurfaceFormat{Format: vulkan.FormatR8g8b8a8Srgb, ColorSpace: vulkan.ColorSpaceSrgbNonlinear}

	assert.Equal(t, preferred, chooseSurfaceFormat([]vulkan.SurfaceFormat{other, preferred}))
	assert.Equal(t, other, chooseSurfaceFormat([]vulkan.SurfaceFormat{other}))
	assert.Equal(t, preferred, chooseSurfaceFormat(nil))
	assert.Equal(t, preferred, chooseSurfaceFormat([]vulkan.SurfaceFormat{{Format: vulkan.FormatUndefined}}))
}

func TestBarrierFor(t *testing.T) {
	toColor := barrierFor(render.ToColorAttachment)
	assert.Equal(t, vulkan.ImageLayoutUndefined, toColor.oldLayout)
	assert.Equal(t, vulkan.ImageLayoutColorAttachmentOptimal, toColor.newLayout)
	assert.Equal(t, vulkan.PipelineStageTopOfPipeBit, toColor.srcStage)
	assert.Equal(t, vulkan.PipelineStageColorAttachmentOutputBit, toColor.dstStage)
	assert.Zero(t, toColor.srcAccess)
	assert.Equal(t, vulkan.AccessColorAttachmentWriteBit, toColor.dstAccess)

	toPresent := barrierFor(render.ToPresent)
	assert.Equal(t, vulkan.ImageLayoutColorAttachmentOptimal, toPresent.oldLayout)
	assert.Equal(t, vulkan.ImageLayoutPresentSrc, toPresent.newLayout)
	assert.Equal(t, vulkan.PipelineStageColorAttachmentOutputBit, toPresent.srcStage)
	assert.Equal(t, vulkan.PipelineStageBottomOfPipeBit, toPresent.dstStage)
	assert.Equal(t, vulkan.AccessColorAttachmentWriteBit, toPresent.srcAccess)
	assert.Zero(t, toPresent.dstAccess)
}

func TestShaderWords(t *testing.T) {
	words, err := shaderWords([]byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00})
	require.NoError(t, err)
	assert.Equal(t, []uint32{spirvMagic, 0x00010000}, words)

	_, err = shaderWords([]byte{0x03, 0x02, 0x23})
	assert.ErrorIs(t, err, ErrShaderCode)

	_, err = shaderWords(nil)
	assert.ErrorIs(t, err, ErrShaderCode)

	_, err = shaderWords([]byte{1, 2, 3, 4})
	assert.ErrorIs(t, err, ErrShaderCode)
}

func TestEmbeddedShaders(t *testing.T) {
	for name, code := range map[string][]byte{"vert": quadVertSPV, "frag": quadFragSPV} {
		words, err := shaderWords(code)
		require.NoError(t, err, name)
		assert.Greater(t, len(words), 5, name)
	}
}

const (
	opMemberDecorate = 72
	decorationOffset = 35
)

// memberOffsets returns every Offset member decoration in a SPIR-V module.
func memberOffsets(t *testing.T, words []uint32) []uint32 {
	t.Helper()
	var offsets []uint32
	for i := 5; i < len(words); {
		count, op := int(words[i]>>16), words[i]&0xffff
		require.NotZero(t, count, "instruction at word %d", i)
		require.LessOrEqual(t, i+count, len(words), "instruction at word %d", i)
		if op == opMemberDecorate && count == 5 && words[i+3] == decorationOffset {
			offsets = append(offsets, words[i+4])
		}
		i += count
	}
	return offsets
}

func TestEmbeddedShaderPushConstantOffsets(t *testing.T) {
	vert, err := shaderWords(quadVertSPV)
	require.NoError(t, err)
	assert.Equal(t, []uint32{render.TransformOffset}, memberOffsets(t, vert))

	frag, err := shaderWords(quadFragSPV)
	require.NoError(t, err)
	assert.Equal(t, []uint32{render.ColorOffset}, memberOffsets(t, frag))
}

func TestInstanceExtensions(t *testing.T) {
	required := []string{"VK_KHR_surface", "VK_KHR_xcb_surface"}

	got := instanceExtensions(required, false)
	assert.Equal(t, []string{"VK_KHR_surface\x00", "VK_KHR_xcb_surface\x00"}, got)
	assert.Equal(t, "VK_KHR_surface", required[0])

	got = instanceExtensions(required, true)
	require.Len(t, got, 3)
	assert.Equal(t, "VK_EXT_debug_report\x00", got[2])
	for _, name := range got {
		assert.True(t, strings.HasSuffix(name, "\x00"), name)
		assert.Equal(t, 1, strings.Count(name, "\x00"), name)
	}

	assert.Empty(t, instanceExtensions(nil, false))
}

func TestSafeString(t *testing.T) {
	assert.Equal(t, "main\x00", safeString("main"))
	assert.Equal(t, "main\x00", safeString("main\x00"))
	assert.Equal(t, "\x00", safeString(""))
}

func TestPresentError(t *testing.T) {
	unchanged := func() (bool, error) { return false, nil }
	changed := func() (bool, error) { return true, nil }
	queryFailed := errors.New("surface lost")
	failing := func() (bool, error) { return false, queryFailed }

	assert.NoError(t, presentError(vulkan.Success, changed))
	assert.ErrorIs(t, presentError(vulkan.ErrorOutOfDate, unchanged), render.ErrOutOfDate)
	assert.NoError(t, presentError(vulkan.Suboptimal, unchanged))
	assert.ErrorIs(t, presentError(vulkan.Suboptimal, changed), render.ErrOutOfDate)
	assert.ErrorIs(t, presentError(vulkan.Suboptimal, failing), queryFailed)

	err := presentError(vulkan.ErrorDeviceLost, unchanged)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "vkQueuePresentKHR", apiErr.Op)
}

func TestPushConstantRanges(t *testing.T) {
	ranges := pushConstantRanges()
	require.Len(t, ranges, 2)
	assert.Equal(t, vulkan.ShaderStageFlags(vulkan.ShaderStageVertexBit), ranges[0].StageFlags)
	assert.Equal(t, uint32(0), ranges[0].Offset)
	assert.Equal(t, uint32(64), ranges[0].Size)
	assert.Equal(t, vulkan.ShaderStageFlags(vulkan.ShaderStageFragmentBit), ranges[1].StageFlags)
	assert.Equal(t, uint32(64), ranges[1].Offset)
	assert.Equal(t, uint32(12), ranges[1].Size)
}

func TestDeviceType(t *testing.T) {
	assert.Equal(t, render.DeviceDiscrete, deviceType(vulkan.PhysicalDeviceTypeDiscreteGpu))
	assert.Equal(t, render.DeviceIntegrated, deviceType(vulkan.PhysicalDeviceTypeIntegratedGpu))
	assert.Equal(t, render.DeviceOther, deviceType(vulkan.PhysicalDeviceTypeOther))
}

func TestNewError(t *testing.T) {
	assert.NoError(t, newError("vkQueueSubmit", vulkan.Success))

	err := newError("vkQueueSubmit", vulkan.ErrorDeviceLost)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "vkQueueSubmit", apiErr.Op)
	assert.Equal(t, int32(vulkan.ErrorDeviceLost), apiErr.Code())
	assert.Contains(t, err.Error(), "vkQueueSubmit")
}

func TestSurfaceCapabilities(t *testing.T) {
	caps := vulkan.SurfaceCapabilities{
		MinImageCount:  2,
		MaxImageCount:  3,
		CurrentExtent:  vulkan.Extent2D{Width: 0xFFFFFFFF, Height: 0xFFFFFFFF},
		MinImageExtent: vulkan.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: vulkan.Extent2D{Width: 4096, Height: 4096},
	}
	got := render.ChooseExtent(surfaceCapabilities(caps), 625, 525)
	assert.Equal(t, render.Extent{Width: 625, Height: 525}, got)
}
