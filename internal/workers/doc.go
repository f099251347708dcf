// Package workers determines worker pool sizes for the frame pipeline.
//
// In containerized deployments (the photo frame usually runs in a small
// container on a Pi or a NAS) runtime.NumCPU() reports the host CPU count,
// not the cgroup limit. GOMAXPROCS respects the limit in Go 1.19+, so all
// sizing here starts from GOMAXPROCS(0).
//
// Effect composition is CPU-bound per pixel row, so the renderer uses
// ForCPU. The FRAME_WORKERS environment variable overrides the automatic
// calculation when operators need to pin concurrency.
package workers
