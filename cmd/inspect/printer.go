package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/kvoloboi/staticinfo/internal/application/sink"
	"github.com/kvoloboi/staticinfo/internal/domain"
	"github.com/kvoloboi/staticinfo/internal/domain/staticinfo"
)

type printer struct {
	out     io.Writer
	json    *json.Encoder
	batches int
	reports int
	invalid int
}

func newPrinter(out io.Writer, asJSON bool) *printer {
	p := &printer{out: out}
	if asJSON {
		p.json = json.NewEncoder(out)
	}
	return p
}

type reportView struct {
	Session   string                   `json:"session"`
	Worker    string                   `json:"worker"`
	Timestamp time.Time                `json:"timestamp"`
	Bytes     int                      `json:"bytes"`
	Error     string                   `json:"error,omitempty"`
	Software  *staticinfo.SoftwareInfo `json:"software,omitempty"`
	Hardware  *staticinfo.HardwareInfo `json:"hardware,omitempty"`
	Model     *staticinfo.ModelInfo    `json:"model,omitempty"`
}

func newReportView(rec domain.Record) reportView {
	v := reportView{
		Session:   rec.Session.String(),
		Worker:    rec.Worker.String(),
		Timestamp: rec.Timestamp.Time().UTC(),
		Bytes:     rec.Size(),
	}

	report, err := sink.DecodeReport(rec)
	if err != nil {
		v.Error = err.Error()
		return v
	}
	if sw, ok := report.Software(); ok {
		v.Software = &sw
	}
	if hw, ok := report.Hardware(); ok {
		v.Hardware = &hw
	}
	if m, ok := report.Model(); ok {
		v.Model = &m
	}
	return v
}

func (p *printer) print(rec domain.Record) error {
	v := newReportView(rec)
	if v.Error != "" {
		p.invalid++
	} else {
		p.reports++
	}

	if p.json != nil {
		return p.json.Encode(v)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  session=%s worker=%s  %s\n",
		v.Timestamp.Format(time.RFC3339), v.Session, v.Worker, humanize.Bytes(uint64(v.Bytes)))

	if v.Error != "" {
		fmt.Fprintf(&b, "  invalid: %s\n", v.Error)
	}
	if sw := v.Software; sw != nil {
		fmt.Fprintf(&b, "  software: %s/%s %s %s (lang %s)\n",
			sw.OSName, sw.Arch, sw.RuntimeName, sw.RuntimeVersion, sw.RuntimeSpecVersion)
		fmt.Fprintf(&b, "    backend=%s dtype=%s\n", sw.BackendClass, sw.DataTypeName)
	}
	if hw := v.Hardware; hw != nil {
		fmt.Fprintf(&b, "  hardware: %d cpus, max memory %s, off-heap %s, %d devices\n",
			hw.AvailableProcessors, memory(hw.MaxMemory), memory(hw.OffHeapMaxMemory), hw.NumDevices)
		for i, desc := range hw.DeviceDescription {
			mem := staticinfo.UnknownDeviceMemory
			if i < len(hw.DeviceTotalMemory) {
				mem = hw.DeviceTotalMemory[i]
			}
			fmt.Fprintf(&b, "    [%d] %s  %s\n", i, desc, memory(mem))
		}
	}
	if m := v.Model; m != nil {
		fmt.Fprintf(&b, "  model: %s, %d layers, %s params, config %s\n",
			m.ClassName, m.NumLayers, humanize.Comma(m.NumParams), humanize.Bytes(uint64(len(m.ConfigJSON))))
		if len(m.ParamNames) > 0 {
			fmt.Fprintf(&b, "    params: %s\n", strings.Join(m.ParamNames, ", "))
		}
	}

	_, err := io.WriteString(p.out, b.String())
	return err
}

func (p *printer) summary() error {
	if p.json != nil {
		return nil
	}
	_, err := fmt.Fprintf(p.out, "%d batches, %d reports, %d invalid\n", p.batches, p.reports, p.invalid)
	return err
}

func memory(n int64) string {
	if n < 0 {
		return "unknown"
	}
	return humanize.IBytes(uint64(n))
}
