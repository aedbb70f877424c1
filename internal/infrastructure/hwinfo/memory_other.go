//go:build !linux

package hwinfo

func totalMemory() int64 {
	return 0
}
