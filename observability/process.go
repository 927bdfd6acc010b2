package observability

import (
	"chat-notify/domain"
	"os"

	"github.com/shirou/gopsutil/process"
)

// SelfProcess retrieves memory, CPU and OS status of the current process.
func SelfProcess() (domain.Process, error) {
	pid := int32(os.Getpid())
	p, err := process.NewProcess(pid)
	if err != nil {
		return domain.Process{}, err
	}

	memInfo, err := p.MemoryInfo()
	if err != nil {
		return domain.Process{}, err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return domain.Process{}, err
	}

	status, err := p.Status()
	if err != nil {
		return domain.Process{}, err
	}

	return domain.Process{
		PID:        domain.PID(pid),
		RSS:        memInfo.RSS,
		CPUPercent: cpuPercent,
		Status:     domain.ToStatus(status),
	}, nil
}
