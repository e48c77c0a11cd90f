package resource

import (
	"fmt"
	"slices"

	"github.com/mayuresh82/go-gmpls-te/addr"
)

// RangeKind indexes the numeric constraints of a grid job.
type RangeKind uint8

const (
	IndividualCPUSpeed RangeKind = iota
	IndividualCPUTime
	IndividualCPUCount
	IndividualNetworkBandwidth
	IndividualPhysicalMemory
	IndividualVirtualMemory
	IndividualDiskSpace
	TotalCPUTime
	TotalCPUCount
	TotalPhysicalMemory
	TotalVirtualMemory
	TotalDiskSpace
	NumRangeKinds
)

var rangeKindNames = [NumRangeKinds]string{
	"IndividualCPUSpeed",
	"IndividualCPUTime",
	"IndividualCPUCount",
	"IndividualNetworkBandwidth",
	"IndividualPhysicalMemory",
	"IndividualVirtualMemory",
	"IndividualDiskSpace",
	"TotalCPUTime",
	"TotalCPUCount",
	"TotalPhysicalMemory",
	"TotalVirtualMemory",
	"TotalDiskSpace",
}

func (k RangeKind) String() string {
	if k < NumRangeKinds {
		return rangeKindNames[k]
	}
	return fmt.Sprintf("UNKNOWN (%d)", uint8(k))
}

type GridMask uint32

const (
	GridApp GridMask = 1 << iota
	GridCandidateHost
	GridFileSystems
	GridCapabilities
	GridStaging
	GridSiteID

	gridRangeShift = 8
)

// RangeBit returns the mask bit declaring the range constraint k.
func RangeBit(k RangeKind) GridMask {
	return 1 << (gridRangeShift + uint(k))
}

// Range is an inclusive numeric constraint.
type Range struct {
	Lower, Upper float64
}

type AppDescriptor struct {
	Name        string
	Version     string
	Description string
	Args        []string
}

func (a AppDescriptor) clone() AppDescriptor {
	a.Args = append([]string(nil), a.Args...)
	return a
}

func (a AppDescriptor) equal(o AppDescriptor) bool {
	return a.Name == o.Name && a.Version == o.Version &&
		a.Description == o.Description && slices.Equal(a.Args, o.Args)
}

type FileSystemType uint8

const (
	FSNormal FileSystemType = iota
	FSSpool
	FSTemporary
	FSSwap
)

type FileSystem struct {
	Name       string
	Type       FileSystemType
	MountPoint string
	DiskSpace  Range
}

type SystemCaps struct {
	OSName    string
	OSVersion string
	CPUArch   string
}

type CreationFlag uint8

const (
	CreateOverwrite CreationFlag = iota
	CreateAppend
	CreateDontOverwrite
)

// DataStaging describes a file moved in or out of the execution host.
type DataStaging struct {
	FileName            string
	FileSystemName      string
	Creation            CreationFlag
	DeleteOnTermination bool
	Source              string
	Target              string
}

// GridResSpec describes the host-side requirements of a grid job.
type GridResSpec struct {
	Mask          GridMask
	App           AppDescriptor
	CandidateHost addr.Addr
	FileSystems   []FileSystem
	Caps          SystemCaps
	Ranges        [NumRangeKinds]Range
	Staging       []DataStaging
	SiteID        uint32
}

func (s GridResSpec) Has(bit GridMask) bool {
	return s.Mask&bit != 0
}

// Validate checks that an application is declared and that a declared
// candidate host is non-null.
func (s GridResSpec) Validate() error {
	if !s.Has(GridApp) {
		return invalid("application", "GridResSpec.Validate: application not declared")
	}
	if s.Has(GridCandidateHost) && s.CandidateHost.IsNull() {
		return invalid("candidate_host", "GridResSpec.Validate: candidate host is null")
	}
	return nil
}

// Clone returns a deep copy of s.
func (s GridResSpec) Clone() GridResSpec {
	c := s
	c.App = s.App.clone()
	c.FileSystems = append([]FileSystem(nil), s.FileSystems...)
	c.Staging = append([]DataStaging(nil), s.Staging...)
	return c
}

// Merge copies every field declared in src into s, deep-copying slices.
func (s *GridResSpec) Merge(src GridResSpec) {
	if src.Has(GridApp) {
		s.Mask &^= GridApp
		s.App = src.App.clone()
		s.Mask |= GridApp
	}
	if src.Has(GridCandidateHost) {
		s.Mask &^= GridCandidateHost
		s.CandidateHost = src.CandidateHost
		s.Mask |= GridCandidateHost
	}
	if src.Has(GridFileSystems) {
		s.Mask &^= GridFileSystems
		s.FileSystems = append([]FileSystem(nil), src.FileSystems...)
		s.Mask |= GridFileSystems
	}
	if src.Has(GridCapabilities) {
		s.Mask &^= GridCapabilities
		s.Caps = src.Caps
		s.Mask |= GridCapabilities
	}
	for k := RangeKind(0); k < NumRangeKinds; k++ {
		if bit := RangeBit(k); src.Has(bit) {
			s.Mask &^= bit
			s.Ranges[k] = src.Ranges[k]
			s.Mask |= bit
		}
	}
	if src.Has(GridStaging) {
		s.Mask &^= GridStaging
		s.Staging = append([]DataStaging(nil), src.Staging...)
		s.Mask |= GridStaging
	}
	if src.Has(GridSiteID) {
		s.Mask &^= GridSiteID
		s.SiteID = src.SiteID
		s.Mask |= GridSiteID
	}
}

// MergeValid merges src into s only if the result validates.
func (s *GridResSpec) MergeValid(src GridResSpec) error {
	tmp := s.Clone()
	tmp.Merge(src)
	if err := tmp.Validate(); err != nil {
		return err
	}
	*s = tmp
	return nil
}

func (s GridResSpec) Equal(o GridResSpec) bool {
	if s.Mask != o.Mask {
		return false
	}
	if s.Has(GridApp) && !s.App.equal(o.App) {
		return false
	}
	if s.Has(GridCandidateHost) && !s.CandidateHost.Equal(o.CandidateHost) {
		return false
	}
	if s.Has(GridFileSystems) && !slices.Equal(s.FileSystems, o.FileSystems) {
		return false
	}
	if s.Has(GridCapabilities) && s.Caps != o.Caps {
		return false
	}
	for k := RangeKind(0); k < NumRangeKinds; k++ {
		if s.Has(RangeBit(k)) && s.Ranges[k] != o.Ranges[k] {
			return false
		}
	}
	if s.Has(GridStaging) && !slices.Equal(s.Staging, o.Staging) {
		return false
	}
	if s.Has(GridSiteID) && s.SiteID != o.SiteID {
		return false
	}
	return true
}
