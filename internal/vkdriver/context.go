package vkdriver

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/vulkan-go/glfw/v3.3/glfw"
	"github.com/vulkan-go/vulkan"

	"vksnake/internal/render"
)

var (
	validationLayers = []string{"VK_LAYER_KHRONOS_validation\x00"}
	deviceExtensions = []string{"VK_KHR_swapchain\x00"}
)

// apiVersion is the instance and device version required for dynamic
// rendering.
var apiVersion = vulkan.MakeVersion(1, 3, 0)

// Config selects the optional parts of the device context.
type Config struct {
	AppName    string
	Validation bool
}

// deviceContext owns the instance, surface, logical device and its single
// queue. The physical device handle is borrowed from the instance.
type deviceContext struct {
	cfg    Config
	window *glfw.Window

	instance      vulkan.Instance
	debugCallback vulkan.DebugReportCallback
	surface       vulkan.Surface
	gpu           vulkan.PhysicalDevice
	gpuName       string
	device        vulkan.Device
	queue         vulkan.Queue
	queueFamily   uint32
}

func newDeviceContext(window *glfw.Window, cfg Config) (*deviceContext, error) {
	c := &deviceContext{cfg: cfg, window: window}
	if err := c.init(); err != nil {
		c.destroy()
		return nil, err
	}
	return c, nil
}

func (c *deviceContext) init() error {
	if !glfw.VulkanSupported() {
		return render.NewInitError("load vulkan", errors.New("GLFW Vulkan loader not found"))
	}
	vulkan.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	if err := vulkan.Init(); err != nil {
		return render.NewInitError("load vulkan", err)
	}
	if err := c.createInstance(); err != nil {
		return render.NewInitError("create instance", err)
	}
	if err := vulkan.InitInstance(c.instance); err != nil {
		return render.NewInitError("load instance functions", err)
	}
	if err := c.setupDebugCallback(); err != nil {
		return render.NewInitError("create debug callback", err)
	}
	if err := c.createSurface(); err != nil {
		return render.NewInitError("create surface", err)
	}
	if err := c.pickPhysicalDevice(); err != nil {
		return render.NewInitError("select physical device", err)
	}
	if err := c.pickQueueFamily(); err != nil {
		return render.NewInitError("select queue family", err)
	}
	if err := c.createLogicalDevice(); err != nil {
		return render.NewInitError("create logical device", err)
	}
	if err := loadDynamicRendering(glfw.GetVulkanGetInstanceProcAddress(), c.instance, c.device); err != nil {
		return render.NewInitError("load dynamic rendering", err)
	}
	return nil
}

func (c *deviceContext) createInstance() error {
	if c.cfg.Validation && !validationLayersSupported() {
		return errors.New("requested validation layers not available")
	}

	appInfo := vulkan.ApplicationInfo{
		SType:              vulkan.StructureTypeApplicationInfo,
		PApplicationName:   safeString(c.cfg.AppName),
		ApplicationVersion: vulkan.MakeVersion(1, 0, 0),
		PEngineName:        "vksnake\x00",
		EngineVersion:      vulkan.MakeVersion(1, 0, 0),
		ApiVersion:         apiVersion,
	}

	extensions := instanceExtensions(c.window.GetRequiredInstanceExtensions(), c.cfg.Validation)

	createInfo := vulkan.InstanceCreateInfo{
		SType:                   vulkan.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
	}
	if c.cfg.Validation {
		createInfo.EnabledLayerCount = uint32(len(validationLayers))
		createInfo.PpEnabledLayerNames = validationLayers
	}

	return newError("vkCreateInstance", vulkan.CreateInstance(&createInfo, nil, &c.instance))
}

// instanceExtensions returns the NUL-terminated extension names for
// vkCreateInstance. The binding hands each string's bytes to C unchanged.
func instanceExtensions(required []string, validation bool) []string {
	out := make([]string, 0, len(required)+1)
	for _, name := range required {
		out = append(out, safeString(name))
	}
	if validation {
		out = append(out, safeString("VK_EXT_debug_report"))
	}
	return out
}

func safeString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func validationLayersSupported() bool {
	var count uint32
	if vulkan.EnumerateInstanceLayerProperties(&count, nil) != vulkan.Success {
		return false
	}
	props := make([]vulkan.LayerProperties, count)
	if vulkan.EnumerateInstanceLayerProperties(&count, props) != vulkan.Success {
		return false
	}
	supported := make(map[string]bool)
	for i := range props {
		props[i].Deref()
		supported[vulkan.ToString(props[i].LayerName[:])] = true
	}
	for _, l := range validationLayers {
		if !supported[vulkan.ToString([]byte(l))] {
			return false
		}
	}
	return true
}

func (c *deviceContext) setupDebugCallback() error {
	if !c.cfg.Validation {
		return nil
	}
	createInfo := vulkan.DebugReportCallbackCreateInfo{
		SType: vulkan.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vulkan.DebugReportFlags(
			vulkan.DebugReportErrorBit |
				vulkan.DebugReportWarningBit |
				vulkan.DebugReportPerformanceWarningBit),
		PfnCallback: debugReport,
	}
	return newError("vkCreateDebugReportCallbackEXT",
		vulkan.CreateDebugReportCallback(c.instance, &createInfo, nil, &c.debugCallback))
}

func debugReport(flags vulkan.DebugReportFlags, objectType vulkan.DebugReportObjectType, object uint64, location uint, messageCode int32, layerPrefix string, message string, userData unsafe.Pointer) vulkan.Bool32 {
	log := render.Logger()
	if flags&vulkan.DebugReportFlags(vulkan.DebugReportErrorBit) != 0 {
		log.Error(message, "layer", layerPrefix, "code", messageCode)
	} else {
		log.Warn(message, "layer", layerPrefix, "code", messageCode)
	}
	return vulkan.False
}

func (c *deviceContext) createSurface() error {
	surfacePtr, err := c.window.CreateWindowSurface(c.instance, nil)
	if err != nil {
		return err
	}
	c.surface = vulkan.SurfaceFromPointer(surfacePtr)
	return nil
}

func (c *deviceContext) pickPhysicalDevice() error {
	var count uint32
	if err := newError("vkEnumeratePhysicalDevices", vulkan.EnumeratePhysicalDevices(c.instance, &count, nil)); err != nil {
		return err
	}
	devices := make([]vulkan.PhysicalDevice, count)
	if count > 0 {
		if err := newError("vkEnumeratePhysicalDevices", vulkan.EnumeratePhysicalDevices(c.instance, &count, devices)); err != nil {
			return err
		}
	}

	infos := make([]render.PhysicalDeviceInfo, len(devices))
	versions := make([]uint32, len(devices))
	for i, dev := range devices {
		var props vulkan.PhysicalDeviceProperties
		vulkan.GetPhysicalDeviceProperties(dev, &props)
		props.Deref()
		infos[i] = render.PhysicalDeviceInfo{
			Name: vulkan.ToString(props.DeviceName[:]),
			Type: deviceType(props.DeviceType),
		}
		versions[i] = props.ApiVersion
	}

	idx, err := render.SelectPhysicalDevice(infos)
	if err != nil {
		return err
	}
	if versions[idx] < apiVersion {
		return fmt.Errorf("%s supports Vulkan %d.%d, need 1.3",
			infos[idx].Name, versions[idx]>>22, (versions[idx]>>12)&0x3ff)
	}
	c.gpu = devices[idx]
	c.gpuName = infos[idx].Name
	render.Logger().Info("selected GPU", "name", infos[idx].Name, "type", infos[idx].Type)
	return nil
}

func deviceType(t vulkan.PhysicalDeviceType) render.DeviceType {
	switch t {
	case vulkan.PhysicalDeviceTypeIntegratedGpu:
		return render.DeviceIntegrated
	case vulkan.PhysicalDeviceTypeDiscreteGpu:
		return render.DeviceDiscrete
	case vulkan.PhysicalDeviceTypeVirtualGpu:
		return render.DeviceVirtual
	case vulkan.PhysicalDeviceTypeCpu:
		return render.DeviceCPU
	default:
		return render.DeviceOther
	}
}

func (c *deviceContext) pickQueueFamily() error {
	var count uint32
	vulkan.GetPhysicalDeviceQueueFamilyProperties(c.gpu, &count, nil)
	props := make([]vulkan.QueueFamilyProperties, count)
	vulkan.GetPhysicalDeviceQueueFamilyProperties(c.gpu, &count, props)

	families := make([]render.QueueFamilyInfo, len(props))
	for i := range props {
		props[i].Deref()
		var present vulkan.Bool32
		vulkan.GetPhysicalDeviceSurfaceSupport(c.gpu, uint32(i), c.surface, &present)
		families[i] = render.QueueFamilyInfo{
			Graphics: props[i].QueueFlags&vulkan.QueueFlags(vulkan.QueueGraphicsBit) != 0,
			Present:  present == vulkan.True,
		}
	}

	family, err := render.FindQueueFamily(families)
	if err != nil {
		return err
	}
	c.queueFamily = family
	return nil
}

func (c *deviceContext) createLogicalDevice() error {
	features := newDynamicRenderingFeatures()
	if features == nil {
		return errors.New("allocate dynamic rendering features")
	}
	defer freeChain(features)

	queueInfos := []vulkan.DeviceQueueCreateInfo{{
		SType:            vulkan.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: c.queueFamily,
		QueueCount:       1,
		PQueuePriorities: []float32{1.0},
	}}
	createInfo := vulkan.DeviceCreateInfo{
		SType:                   vulkan.StructureTypeDeviceCreateInfo,
		PNext:                   features,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(deviceExtensions)),
		PpEnabledExtensionNames: deviceExtensions,
		PEnabledFeatures:        []vulkan.PhysicalDeviceFeatures{{}},
	}
	if c.cfg.Validation {
		createInfo.EnabledLayerCount = uint32(len(validationLayers))
		createInfo.PpEnabledLayerNames = validationLayers
	}

	if err := newError("vkCreateDevice", vulkan.CreateDevice(c.gpu, &createInfo, nil, &c.device)); err != nil {
		return err
	}
	vulkan.GetDeviceQueue(c.device, c.queueFamily, 0, &c.queue)
	return nil
}

// destroy releases what init created, in reverse order. It tolerates a
// partially initialised context.
func (c *deviceContext) destroy() {
	if c.device != vulkan.Device(vulkan.NullHandle) {
		vulkan.DestroyDevice(c.device, nil)
		c.device = vulkan.Device(vulkan.NullHandle)
	}
	if c.instance == vulkan.Instance(vulkan.NullHandle) {
		return
	}
	if c.debugCallback != vulkan.DebugReportCallback(vulkan.NullHandle) {
		vulkan.DestroyDebugReportCallback(c.instance, c.debugCallback, nil)
		c.debugCallback = vulkan.DebugReportCallback(vulkan.NullHandle)
	}
	if c.surface != vulkan.Surface(vulkan.NullHandle) {
		vulkan.DestroySurface(c.instance, c.surface, nil)
		c.surface = vulkan.Surface(vulkan.NullHandle)
	}
	vulkan.DestroyInstance(c.instance, nil)
	c.instance = vulkan.Instance(vulkan.NullHandle)
}
