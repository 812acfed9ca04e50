// Package handlers provides HTTP API handlers for localtv.
package handlers

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/jmylchreest/localtv/internal/service"
)

// ChannelStatusFunc reports the channel state for health checks.
type ChannelStatusFunc func() service.ChannelStatus

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	version   string
	startTime time.Time
	channel   ChannelStatusFunc
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		version:   version,
		startTime: time.Now(),
	}
}

// WithChannel sets the channel whose state is reported.
func (h *HealthHandler) WithChannel(status ChannelStatusFunc) *HealthHandler {
	h.channel = status
	return h
}

// HealthInput is the input for the health check endpoint.
type HealthInput struct{}

// HealthOutput is the output for the health check endpoint.
type HealthOutput struct {
	Body HealthResponse
}

// LivezInput is the input for the liveness probe.
type LivezInput struct{}

// LivezOutput is the output for the liveness probe.
type LivezOutput struct {
	Body ProbeStatus
}

// ReadyzInput is the input for the readiness probe.
type ReadyzInput struct{}

// ReadyzOutput is the output for the readiness probe.
type ReadyzOutput struct {
	Body ProbeStatus
}

// Register registers the health routes with the API.
func (h *HealthHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getHealth",
		Method:      "GET",
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service including system metrics",
		Tags:        []string{"System"},
	}, h.GetHealth)

	huma.Register(api, huma.Operation{
		OperationID: "getLivez",
		Method:      "GET",
		Path:        "/livez",
		Summary:     "Liveness probe",
		Tags:        []string{"System"},
	}, h.GetLivez)

	huma.Register(api, huma.Operation{
		OperationID: "getReadyz",
		Method:      "GET",
		Path:        "/readyz",
		Summary:     "Readiness probe",
		Description: "Reports ready once the channel has items to play",
		Tags:        []string{"System"},
	}, h.GetReadyz)
}

// GetHealth returns the health status of the service.
func (h *HealthHandler) GetHealth(ctx context.Context, input *HealthInput) (*HealthOutput, error) {
	now := time.Now()
	uptime := now.Sub(h.startTime)

	resp := HealthResponse{
		Status:        "healthy",
		Timestamp:     now.UTC().Format(time.RFC3339),
		Version:       h.version,
		Uptime:        uptime.Round(time.Second).String(),
		UptimeSeconds: uptime.Seconds(),
		CPUInfo:       h.getCPUInfo(),
		Memory:        h.getMemoryInfo(),
		Checks:        map[string]string{"channel": "not_configured"},
	}
	if h.channel != nil {
		st := h.channel()
		resp.Channel = &ChannelHealth{
			Items:       st.Items,
			Ads:         st.Ads,
			NormalPlays: st.NormalPlays,
		}
		resp.Checks["channel"] = channelCheck(st)
	}

	return &HealthOutput{Body: resp}, nil
}

// GetLivez reports that the process is serving requests.
func (h *HealthHandler) GetLivez(ctx context.Context, input *LivezInput) (*LivezOutput, error) {
	return &LivezOutput{Body: ProbeStatus{Status: "ok"}}, nil
}

// GetReadyz reports whether the channel can play.
func (h *HealthHandler) GetReadyz(ctx context.Context, input *ReadyzInput) (*ReadyzOutput, error) {
	components := map[string]string{"channel": "not_configured"}
	status := "not_ready"
	if h.channel != nil {
		components["channel"] = channelCheck(h.channel())
		if components["channel"] == "ok" {
			status = "ready"
		}
	}
	return &ReadyzOutput{Body: ProbeStatus{Status: status, Components: components}}, nil
}

func channelCheck(st service.ChannelStatus) string {
	if st.Items == 0 {
		return "empty"
	}
	return "ok"
}

// getCPUInfo returns CPU load information.
func (h *HealthHandler) getCPUInfo() CPUInfo {
	cores := runtime.NumCPU()

	info := CPUInfo{
		Cores: cores,
	}

	loadAvg, err := load.Avg()
	if err == nil && loadAvg != nil {
		info.Load1Min = loadAvg.Load1
		info.Load5Min = loadAvg.Load5
		info.Load15Min = loadAvg.Load15

		if cores > 0 {
			info.LoadPercentage1Min = (loadAvg.Load1 / float64(cores)) * 100
		}
	}

	return info
}

// getMemoryInfo returns memory usage information.
func (h *HealthHandler) getMemoryInfo() MemoryInfo {
	info := MemoryInfo{}

	vmStat, err := mem.VirtualMemory()
	if err == nil && vmStat != nil {
		info.TotalMemoryMB = float64(vmStat.Total) / 1024 / 1024
		info.UsedMemoryMB = float64(vmStat.Used) / 1024 / 1024
		info.AvailableMemoryMB = float64(vmStat.Available) / 1024 / 1024
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return info
	}
	if memInfo, err := proc.MemoryInfo(); err == nil && memInfo != nil {
		info.ProcessMB = float64(memInfo.RSS) / 1024 / 1024
		if info.TotalMemoryMB > 0 {
			info.PercentageOfSystem = (info.ProcessMB / info.TotalMemoryMB) * 100
		}
	}

	return info
}
