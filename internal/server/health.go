package server

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"golang.org/x/sync/errgroup"
)

const bytesPerGB = 1024 * 1024 * 1024

// healthHandler reports which providers are configured together with basic
// host stats. Stats that cannot be read are left out; the endpoint itself
// only fails if the response cannot be written.
func (s *Server) healthHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger := zerolog.Ctx(ctx)

	var (
		vm         *mem.VirtualMemoryStat
		hostInfo   *host.InfoStat
		cpuPercent []float64
	)

	var g errgroup.Group
	g.Go(func() error {
		v, err := mem.VirtualMemoryWithContext(ctx)
		if err != nil {
			logger.Debug().Err(err).Msg("healthHandler: memory stats unavailable")
			return nil
		}
		vm = v
		return nil
	})
	g.Go(func() error {
		h, err := host.InfoWithContext(ctx)
		if err != nil {
			logger.Debug().Err(err).Msg("healthHandler: host info unavailable")
			return nil
		}
		hostInfo = h
		return nil
	})
	g.Go(func() error {
		// Interval 0 compares against the previous call instead of blocking.
		p, err := cpu.PercentWithContext(ctx, 0, false)
		if err != nil {
			logger.Debug().Err(err).Msg("healthHandler: cpu stats unavailable")
			return nil
		}
		cpuPercent = p
		return nil
	})
	_ = g.Wait()

	nutritionProvider := ""
	if s.extractor != nil {
		nutritionProvider = s.cfg.Nutrition.Provider
	}

	resp := map[string]interface{}{
		"status":     "online",
		"uptime":     time.Since(s.startTime).Round(time.Second).String(),
		"start_time": s.startTime.Format(time.RFC3339),
		"providers": map[string]interface{}{
			"chat":               s.chatEnabled,
			"nutrition":          s.extractor != nil,
			"nutrition_provider": nutritionProvider,
		},
		"runtime": map[string]interface{}{
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
			"cores":      runtime.NumCPU(),
		},
	}

	if hostInfo != nil {
		rt := resp["runtime"].(map[string]interface{})
		rt["os"] = hostInfo.OS
		rt["platform"] = hostInfo.Platform
		rt["arch"] = hostInfo.KernelArch
		rt["hostname"] = hostInfo.Hostname
	}
	if len(cpuPercent) > 0 {
		resp["cpu"] = map[string]interface{}{
			"usage_percent": fmt.Sprintf("%.2f%%", cpuPercent[0]),
		}
	}
	if vm != nil {
		resp["memory"] = map[string]interface{}{
			"total_gb":     fmt.Sprintf("%.2f GB", float64(vm.Total)/bytesPerGB),
			"used_gb":      fmt.Sprintf("%.2f GB", float64(vm.Used)/bytesPerGB),
			"used_percent": fmt.Sprintf("%.2f%%", vm.UsedPercent),
			"free_gb":      fmt.Sprintf("%.2f GB", float64(vm.Free)/bytesPerGB),
		}
	}

	return c.JSON(http.StatusOK, resp)
}
