// Package onnx implements the model contract on top of ONNX Runtime.
package onnx

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/cocosip/go-superres/model"
)

var _ model.Model = (*Session)(nil)

// CoreML execution provider flags, from coreml_provider_factory.h.
const (
	coremlFlagUseNone       = 0x000
	coremlFlagOnlyDeviceANE = 0x004
)

// Config describes how to locate and load an ONNX model.
type Config struct {
	// ModelPath is the path to the .onnx artifact.
	ModelPath string

	// Name is the name the session answers to, e.g. in the backend
	// registry. Empty derives it from the model file name.
	Name string

	// LibraryPath optionally points at the ONNX Runtime shared library.
	// Empty means the library's default lookup.
	LibraryPath string

	// Device selects the compute units inference may run on.
	Device model.ComputeDevice

	// InputName and OutputName bind the model's tensor slots explicitly.
	// When empty, the model must declare exactly one input and one output;
	// anything else fails the load. Slot order as reported by the runtime
	// is never used as a tie-breaker.
	InputName  string
	OutputName string

	// Threads limits intra-op parallelism; 0 keeps the runtime default.
	Threads int
}

// Session is a loaded ONNX model with a validated single-input,
// single-output binding. Immutable after Load and safe for concurrent use.
type Session struct {
	name       string
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
	inputW     int
	inputH     int
}

var (
	envOnce sync.Once
	envErr  error
)

func initEnvironment(libraryPath string) error {
	envOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		envErr = ort.InitializeEnvironment()
	})
	return envErr
}

// Load opens an ONNX model, binds its input and output slots and validates
// their shapes. Any failure here is fatal to the caller's run.
func Load(cfg Config) (*Session, error) {
	if err := initEnvironment(cfg.LibraryPath); err != nil {
		return nil, fmt.Errorf("%w: onnxruntime environment: %v", model.ErrModelLoad, err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: inspect %s: %v", model.ErrModelLoad, cfg.ModelPath, err)
	}

	inputInfo, err := bindSlot(inputs, cfg.InputName, "input")
	if err != nil {
		return nil, err
	}
	outputInfo, err := bindSlot(outputs, cfg.OutputName, "output")
	if err != nil {
		return nil, err
	}

	w, h, err := fixedImageDims(inputInfo)
	if err != nil {
		return nil, err
	}

	options, err := sessionOptions(cfg)
	if err != nil {
		return nil, err
	}
	defer options.Destroy()

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{inputInfo.Name}, []string{outputInfo.Name}, options)
	if err != nil {
		return nil, fmt.Errorf("%w: create session: %v", model.ErrModelLoad, err)
	}

	name := cfg.Name
	if name == "" {
		base := filepath.Base(cfg.ModelPath)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return &Session{
		name:       name,
		session:    session,
		inputName:  inputInfo.Name,
		outputName: outputInfo.Name,
		inputW:     w,
		inputH:     h,
	}, nil
}

// bindSlot resolves the single tensor slot to use, either by explicit name
// or by requiring exactly one candidate.
func bindSlot(infos []ort.InputOutputInfo, name, kind string) (ort.InputOutputInfo, error) {
	if name != "" {
		for _, info := range infos {
			if info.Name == name {
				return info, nil
			}
		}
		return ort.InputOutputInfo{}, fmt.Errorf("%w: no %s tensor named %q", model.ErrModelLoad, kind, name)
	}
	if len(infos) != 1 {
		return ort.InputOutputInfo{}, fmt.Errorf("%w: model has %d %s tensors, want exactly 1 (or an explicit binding)",
			model.ErrModelLoad, len(infos), kind)
	}
	return infos[0], nil
}

// fixedImageDims validates an NCHW 3-channel slot with static spatial dims.
func fixedImageDims(info ort.InputOutputInfo) (w, h int, err error) {
	dims := info.Dimensions
	if len(dims) != 4 {
		return 0, 0, fmt.Errorf("%w: tensor %q has rank %d, want 4 (NCHW)", model.ErrModelLoad, info.Name, len(dims))
	}
	if dims[1] != 3 {
		return 0, 0, fmt.Errorf("%w: tensor %q has %d channels, want 3", model.ErrModelLoad, info.Name, dims[1])
	}
	if dims[2] <= 0 || dims[3] <= 0 {
		return 0, 0, fmt.Errorf("%w: tensor %q has dynamic spatial dims %v", model.ErrModelLoad, info.Name, dims)
	}
	return int(dims[3]), int(dims[2]), nil
}

func sessionOptions(cfg Config) (*ort.SessionOptions, error) {
	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("%w: session options: %v", model.ErrModelLoad, err)
	}
	if cfg.Threads > 0 {
		if err := options.SetIntraOpNumThreads(cfg.Threads); err != nil {
			options.Destroy()
			return nil, fmt.Errorf("%w: set threads: %v", model.ErrModelLoad, err)
		}
	}

	switch cfg.Device {
	case model.DeviceCPU:
		// Default provider only.
	case model.DeviceAuto:
		// Prefer the neural accelerator; fall through to CPU when the
		// CoreML provider is unavailable on this platform.
		_ = options.AppendExecutionProviderCoreML(coremlFlagOnlyDeviceANE)
	case model.DeviceAll:
		_ = options.AppendExecutionProviderCoreML(coremlFlagUseNone)
	}
	return options, nil
}

// Name returns the backend name
func (s *Session) Name() string {
	return s.name
}

// InputSize returns the model's fixed input dimensions
func (s *Session) InputSize() (int, int) {
	return s.inputW, s.inputH
}

// Predict runs one inference. The input must match the model's fixed input
// size exactly; callers pad smaller tiles before reaching this point.
func (s *Session) Predict(input *model.Tensor) (*model.Prediction, error) {
	if input.Channels != 3 || input.Width != s.inputW || input.Height != s.inputH {
		return nil, fmt.Errorf("%w: got %dx%dx%d, want 3x%dx%d",
			model.ErrInvalidInput, input.Channels, input.Height, input.Width, s.inputH, s.inputW)
	}
	if err := input.CheckShape(); err != nil {
		return nil, err
	}

	inputTensor, err := ort.NewTensor(
		ort.NewShape(1, 3, int64(s.inputH), int64(s.inputW)), input.Data)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	defer func() { _ = inputTensor.Destroy() }()

	outputs := []ort.Value{nil}
	if err := s.session.Run([]ort.Value{inputTensor}, outputs); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	if outputs[0] == nil {
		return nil, fmt.Errorf("%w: no output from model", model.ErrBadOutputShape)
	}
	defer func() { _ = outputs[0].Destroy() }()

	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("%w: output is not a float32 tensor", model.ErrBadOutputShape)
	}

	shape := out.GetShape()
	if len(shape) != 4 || shape[1] != 3 {
		return nil, fmt.Errorf("%w: output shape %v", model.ErrBadOutputShape, shape)
	}
	oh, ow := int(shape[2]), int(shape[3])

	// Copy out of runtime-owned memory before the tensor is destroyed.
	data := make([]float32, 3*oh*ow)
	copy(data, out.GetData())

	planes := &model.Tensor{Data: data, Channels: 3, Height: oh, Width: ow}
	if err := planes.CheckShape(); err != nil {
		return nil, err
	}
	return &model.Prediction{Planes: planes}, nil
}

// Close releases the underlying ONNX session.
func (s *Session) Close() error {
	if s.session == nil {
		return nil
	}
	err := s.session.Destroy()
	s.session = nil
	return err
}
