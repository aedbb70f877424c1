package node

import (
	"encoding/json"
	"errors"
	"fmt"
	"go/version"
	"math"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/kvoloboi/staticinfo/internal/domain/staticinfo"
	"github.com/kvoloboi/staticinfo/internal/infrastructure/hwinfo"
)

var ErrInvalidModelConfig = errors.New("model config is not valid JSON")

type SoftwareConfig struct {
	Enabled      bool
	BackendClass string
	DataTypeName string
}

type ModelConfig struct {
	Enabled    bool
	ClassName  string
	ConfigPath string
	ParamNames []string
	NumLayers  int
	NumParams  int64
}

type CollectorConfig struct {
	Software SoftwareConfig
	Hardware bool
	Model    ModelConfig
}

// ReportCollector builds the report a node sends once per run.
type ReportCollector interface {
	Collect() (*staticinfo.Report, error)
}

// Collector gathers facts from the Go runtime, the host and the configured
// model description.
type Collector struct {
	cfg      CollectorConfig
	probe    func() hwinfo.Facts
	readFile func(string) ([]byte, error)
}

func NewCollector(cfg CollectorConfig, probe func() hwinfo.Facts) *Collector {
	if probe == nil {
		probe = hwinfo.Probe
	}
	return &Collector{
		cfg:      cfg,
		probe:    probe,
		readFile: os.ReadFile,
	}
}

func (c *Collector) Collect() (*staticinfo.Report, error) {
	report := staticinfo.NewReport()

	if c.cfg.Software.Enabled {
		report.SetSoftwareInfo(c.software())
	}
	if c.cfg.Hardware {
		report.SetHardwareInfo(c.hardware())
	}
	if c.cfg.Model.Enabled {
		model, err := c.model()
		if err != nil {
			return nil, err
		}
		report.SetModelInfo(model)
	}

	return report, nil
}

func (c *Collector) software() staticinfo.SoftwareInfo {
	goVersion := runtime.Version()

	return staticinfo.SoftwareInfo{
		Arch:               runtime.GOARCH,
		OSName:             runtime.GOOS,
		RuntimeName:        runtime.Compiler,
		RuntimeVersion:     goVersion,
		RuntimeSpecVersion: strings.TrimPrefix(version.Lang(goVersion), "go"),
		BackendClass:       c.cfg.Software.BackendClass,
		DataTypeName:       c.cfg.Software.DataTypeName,
	}
}

func (c *Collector) hardware() staticinfo.HardwareInfo {
	facts := c.probe()

	// an unset soft limit means the process may use the whole machine
	maxMemory := debug.SetMemoryLimit(-1)
	if maxMemory == math.MaxInt64 && facts.TotalMemory > 0 {
		maxMemory = facts.TotalMemory
	}

	info := staticinfo.HardwareInfo{
		AvailableProcessors: int32(runtime.NumCPU()),
		NumDevices:          int16(min(len(facts.Devices), math.MaxInt16)),
		MaxMemory:           maxMemory,
		OffHeapMaxMemory:    facts.TotalMemory,
		DeviceTotalMemory:   make([]int64, 0, len(facts.Devices)),
		DeviceDescription:   make([]string, 0, len(facts.Devices)),
	}
	for _, d := range facts.Devices {
		info.DeviceTotalMemory = append(info.DeviceTotalMemory, d.TotalMemory)
		info.DeviceDescription = append(info.DeviceDescription, d.Description)
	}
	return info
}

func (c *Collector) model() (staticinfo.ModelInfo, error) {
	cfg := c.cfg.Model

	var configJSON string
	if cfg.ConfigPath != "" {
		data, err := c.readFile(cfg.ConfigPath)
		if err != nil {
			return staticinfo.ModelInfo{}, fmt.Errorf("read model config: %w", err)
		}
		if !json.Valid(data) {
			return staticinfo.ModelInfo{}, fmt.Errorf("%w: %s", ErrInvalidModelConfig, cfg.ConfigPath)
		}
		configJSON = string(data)
	}

	return staticinfo.ModelInfo{
		ClassName:  cfg.ClassName,
		ConfigJSON: configJSON,
		ParamNames: cfg.ParamNames,
		NumLayers:  int32(cfg.NumLayers),
		NumParams:  cfg.NumParams,
	}, nil
}
