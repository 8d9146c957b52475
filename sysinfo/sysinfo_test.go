package sysinfo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/go-playground/assert/v2"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

func fakeCollector(memoryErr error) *Collector {
	return &Collector{
		hostInfo: func(ctx context.Context) (*host.InfoStat, error) {
			return &host.InfoStat{
				Hostname:        "detox-box",
				OS:              "linux",
				Platform:        "debian",
				PlatformVersion: "12",
				KernelVersion:   "6.1.0",
				KernelArch:      "x86_64",
				Uptime:          uint64((76*time.Hour + 5*time.Minute) / time.Second),
			}, nil
		},
		memoryInfo: func(ctx context.Context) (*mem.VirtualMemoryStat, error) {
			if memoryErr != nil {
				return nil, memoryErr
			}
			return &mem.VirtualMemoryStat{
				Total:       uint64(16 * datasize.GB),
				Used:        uint64(4 * datasize.GB),
				UsedPercent: 25,
			}, nil
		},
		cpuCount: func(ctx context.Context, logical bool) (int, error) {
			return 8, nil
		},
	}
}

func TestCollect(t *testing.T) {
	info, err := fakeCollector(nil).Collect(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, "detox-box", info.Hostname)
	assert.Equal(t, 8, info.CPUs)
	assert.Equal(t, "3 days 4 hours", info.UptimeString())
	assert.Equal(t, "4.0 GB / 16.0 GB (25%)", info.MemoryString())

	lines := info.Lines()
	assert.Equal(t, [2]string{"Platform", "debian 12"}, lines[2])
	assert.Equal(t, [2]string{"Kernel", "6.1.0 x86_64"}, lines[3])
}

func TestCollectWithoutMemory(t *testing.T) {
	info, err := fakeCollector(errors.New("no /proc")).Collect(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, uint64(0), info.MemoryTotal)
	assert.Equal(t, "linux", info.OS)
}

func TestCollectHostFailure(t *testing.T) {
	collector := fakeCollector(nil)
	collector.hostInfo = func(ctx context.Context) (*host.InfoStat, error) {
		return nil, errors.New("denied")
	}

	_, err := collector.Collect(context.Background())
	assert.NotEqual(t, nil, err)
}
