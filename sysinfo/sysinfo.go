package sysinfo

import (
	"context"
	"fmt"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/hako/durafmt"
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// Info is a snapshot of local host facts
type Info struct {
	Hostname        string
	OS              string
	Platform        string
	PlatformVersion string
	Kernel          string
	Arch            string
	Uptime          time.Duration
	CPUs            int
	MemoryUsed      uint64
	MemoryTotal     uint64
	MemoryPercent   float64
}

// UptimeString formats the uptime as its two largest units ("3 days 4 hours")
func (i Info) UptimeString() string {
	return durafmt.Parse(i.Uptime).LimitFirstN(2).String()
}

// MemoryString formats memory use ("3.2 GB / 16.0 GB (20%)")
func (i Info) MemoryString() string {
	return fmt.Sprintf("%s / %s (%.0f%%)",
		datasize.ByteSize(i.MemoryUsed).HR(),
		datasize.ByteSize(i.MemoryTotal).HR(),
		i.MemoryPercent)
}

// Lines renders the facts as label/value rows
func (i Info) Lines() [][2]string {
	platform := i.Platform
	if i.PlatformVersion != "" {
		platform += " " + i.PlatformVersion
	}

	return [][2]string{
		{"Host", i.Hostname},
		{"OS", i.OS},
		{"Platform", platform},
		{"Kernel", i.Kernel + " " + i.Arch},
		{"CPUs", fmt.Sprint(i.CPUs)},
		{"Memory", i.MemoryString()},
		{"Uptime", i.UptimeString()},
	}
}

// Collector gathers host facts through gopsutil
type Collector struct {
	hostInfo   func(ctx context.Context) (*host.InfoStat, error)
	memoryInfo func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	cpuCount   func(ctx context.Context, logical bool) (int, error)
}

// NewCollector creates a collector reading the local machine
func NewCollector() *Collector {
	return &Collector{
		hostInfo:   host.InfoWithContext,
		memoryInfo: mem.VirtualMemoryWithContext,
		cpuCount:   cpu.CountsWithContext,
	}
}

// Collect reads the host facts. Host identity is required;
// memory and CPU figures are left at zero when they cannot be read
func (c *Collector) Collect(ctx context.Context) (Info, error) {
	hostInfo, err := c.hostInfo(ctx)
	if err != nil {
		return Info{}, errors.Wrap(err, "could not read host info")
	}

	info := Info{
		Hostname:        hostInfo.Hostname,
		OS:              hostInfo.OS,
		Platform:        hostInfo.Platform,
		PlatformVersion: hostInfo.PlatformVersion,
		Kernel:          hostInfo.KernelVersion,
		Arch:            hostInfo.KernelArch,
		Uptime:          time.Duration(hostInfo.Uptime) * time.Second,
	}

	memory, err := c.memoryInfo(ctx)
	if err == nil {
		info.MemoryUsed = memory.Used
		info.MemoryTotal = memory.Total
		info.MemoryPercent = memory.UsedPercent
	}

	cpus, err := c.cpuCount(ctx, true)
	if err == nil {
		info.CPUs = cpus
	}

	return info, nil
}
