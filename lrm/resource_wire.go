package lrm

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mayuresh82/go-gmpls-te/addr"
	"github.com/mayuresh82/go-gmpls-te/resource"
)

// Field names of the resource and call messages.
const (
	FieldResource = "resource"
	FieldNet      = "net"
	FieldGrid     = "grid"
	FieldCall     = "call"
	FieldCalls    = "calls"
	FieldRole     = "role"
)

// largest integer a Struct number carries exactly
const maxExactInt = 1<<53 - 1

var roleByName = map[string]resource.Role{
	resource.RoleUNI.String():  resource.RoleUNI,
	resource.RoleINNI.String(): resource.RoleINNI,
	resource.RoleENNI.String(): resource.RoleENNI,
}

var rangeKindByName = func() map[string]resource.RangeKind {
	m := make(map[string]resource.RangeKind, resource.NumRangeKinds)
	for k := resource.RangeKind(0); k < resource.NumRangeKinds; k++ {
		m[k.String()] = k
	}
	return m
}()

func (f *fields) strList(k string) []string {
	var out []string
	for _, v := range f.list(k) {
		s, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			f.fail("field %q must hold strings", k)
			return nil
		}
		out = append(out, s.StringValue)
	}
	return out
}

func (f *fields) optStr(k string) string {
	if !f.has(k) {
		return ""
	}
	return f.str(k)
}

func (f *fields) netRes() *resource.NetResSpec {
	s := &resource.NetResSpec{}
	if f.has("tna") {
		s.TNA = f.addr("tna")
		s.Mask |= resource.NetResTNA
	}
	if f.has("data_link") {
		s.DataLink = f.addr("data_link")
		s.Mask |= resource.NetResDataLink
	}
	if f.has("label") {
		s.Label = addr.NewLabel32(f.u32("label"))
		s.Mask |= resource.NetResLabel
	}
	return s
}

func (f *fields) gridRes() *resource.GridResSpec {
	s := &resource.GridResSpec{}
	if f.has("app") {
		af := f.sub("app")
		s.App = resource.AppDescriptor{
			Name:        af.str("name"),
			Version:     af.optStr("version"),
			Description: af.optStr("description"),
		}
		if af.has("args") {
			s.App.Args = af.strList("args")
		}
		f.join(af)
		s.Mask |= resource.GridApp
	}
	if f.has("candidate_host") {
		s.CandidateHost = f.addr("candidate_host")
		s.Mask |= resource.GridCandidateHost
	}
	if f.has("file_systems") {
		for _, v := range f.list("file_systems") {
			ff := f.subValue("file_systems", v)
			fs := resource.FileSystem{
				Name:       ff.str("name"),
				Type:       resource.FileSystemType(ff.u8("type")),
				MountPoint: ff.optStr("mount_point"),
			}
			if ff.has("disk_space") {
				fs.DiskSpace = ff.rangeValue("disk_space")
			}
			f.join(ff)
			s.FileSystems = append(s.FileSystems, fs)
		}
		s.Mask |= resource.GridFileSystems
	}
	if f.has("capabilities") {
		cf := f.sub("capabilities")
		s.Caps = resource.SystemCaps{
			OSName:    cf.optStr("os_name"),
			OSVersion: cf.optStr("os_version"),
			CPUArch:   cf.optStr("cpu_arch"),
		}
		f.join(cf)
		s.Mask |= resource.GridCapabilities
	}
	if f.has("ranges") {
		rf := f.sub("ranges")
		for name := range rf.m {
			k, ok := rangeKindByName[name]
			if !ok {
				f.fail("unknown range %q", name)
				continue
			}
			s.Ranges[k] = rf.rangeValue(name)
			s.Mask |= resource.RangeBit(k)
		}
		f.join(rf)
	}
	if f.has("staging") {
		for _, v := range f.list("staging") {
			sf := f.subValue("staging", v)
			st := resource.DataStaging{
				FileName:       sf.str("file_name"),
				FileSystemName: sf.optStr("file_system"),
				Source:         sf.optStr("source"),
				Target:         sf.optStr("target"),
			}
			if sf.has("creation") {
				st.Creation = resource.CreationFlag(sf.u8("creation"))
			}
			if sf.has("delete_on_termination") {
				st.DeleteOnTermination = sf.m["delete_on_termination"].GetBoolValue()
			}
			f.join(sf)
			s.Staging = append(s.Staging, st)
		}
		s.Mask |= resource.GridStaging
	}
	if f.has("site_id") {
		s.SiteID = f.u32("site_id")
		s.Mask |= resource.GridSiteID
	}
	return s
}

func (f *fields) rangeValue(k string) resource.Range {
	rf := f.sub(k)
	r := resource.Range{Lower: rf.num("lower"), Upper: rf.num("upper")}
	f.join(rf)
	if r.Lower > r.Upper {
		f.fail("field %q: lower %v above upper %v", k, r.Lower, r.Upper)
	}
	return r
}

func (f *fields) descriptor() resource.Descriptor {
	var d resource.Descriptor
	if f.has(FieldNet) {
		nf := f.sub(FieldNet)
		d.Net = nf.netRes()
		f.join(nf)
	}
	if f.has(FieldGrid) {
		gf := f.sub(FieldGrid)
		d.Grid = gf.gridRes()
		f.join(gf)
	}
	return d
}

// ResourceFromStruct reads the router_id field and the resource struct with
// its optional net and grid parts.
func ResourceFromStruct(s *structpb.Struct) (addr.Addr, resource.Descriptor, error) {
	f := newFields(s)
	routerID := f.addr(FieldRouterID)
	rf := f.sub(FieldResource)
	d := rf.descriptor()
	f.join(rf)
	return routerID, d, f.err
}

func rangeToMap(r resource.Range) map[string]interface{} {
	return map[string]interface{}{"lower": r.Lower, "upper": r.Upper}
}

// DescriptorToMap converts a registered resource to its message form.
func DescriptorToMap(d resource.Descriptor) map[string]interface{} {
	m := map[string]interface{}{}
	if n := d.Net; n != nil {
		nm := map[string]interface{}{}
		if n.Has(resource.NetResTNA) {
			nm["tna"] = n.TNA.String()
		}
		if n.Has(resource.NetResDataLink) {
			nm["data_link"] = n.DataLink.String()
		}
		if n.Has(resource.NetResLabel) {
			nm["label"] = float64(n.Label.ID())
		}
		m[FieldNet] = nm
	}
	if g := d.Grid; g != nil {
		gm := map[string]interface{}{}
		if g.Has(resource.GridApp) {
			args := make([]interface{}, len(g.App.Args))
			for i, a := range g.App.Args {
				args[i] = a
			}
			gm["app"] = map[string]interface{}{
				"name": g.App.Name, "version": g.App.Version,
				"description": g.App.Description, "args": args,
			}
		}
		if g.Has(resource.GridCandidateHost) {
			gm["candidate_host"] = g.CandidateHost.String()
		}
		if g.Has(resource.GridFileSystems) {
			fss := make([]interface{}, len(g.FileSystems))
			for i, fs := range g.FileSystems {
				fss[i] = map[string]interface{}{
					"name": fs.Name, "type": float64(fs.Type),
					"mount_point": fs.MountPoint, "disk_space": rangeToMap(fs.DiskSpace),
				}
			}
			gm["file_systems"] = fss
		}
		if g.Has(resource.GridCapabilities) {
			gm["capabilities"] = map[string]interface{}{
				"os_name": g.Caps.OSName, "os_version": g.Caps.OSVersion, "cpu_arch": g.Caps.CPUArch,
			}
		}
		ranges := map[string]interface{}{}
		for k := resource.RangeKind(0); k < resource.NumRangeKinds; k++ {
			if g.Has(resource.RangeBit(k)) {
				ranges[k.String()] = rangeToMap(g.Ranges[k])
			}
		}
		if len(ranges) > 0 {
			gm["ranges"] = ranges
		}
		if g.Has(resource.GridStaging) {
			st := make([]interface{}, len(g.Staging))
			for i, s := range g.Staging {
				st[i] = map[string]interface{}{
					"file_name": s.FileName, "file_system": s.FileSystemName,
					"creation": float64(s.Creation), "delete_on_termination": s.DeleteOnTermination,
					"source": s.Source, "target": s.Target,
				}
			}
			gm["staging"] = st
		}
		if g.Has(resource.GridSiteID) {
			gm["site_id"] = float64(g.SiteID)
		}
		m[FieldGrid] = gm
	}
	return m
}

func (f *fields) callIdent(k string) resource.CallIdent {
	cf := f.sub(k)
	c := resource.CallIdent{Type: resource.CallType(cf.u8("type"))}
	if cf.has("src") {
		c.Src = cf.addr("src")
	}
	if cf.has("local_id") {
		c.LocalID = cf.uintValue("local_id", cf.m["local_id"], maxExactInt)
	}
	c.Country = cf.optStr("country")
	c.Carrier = cf.optStr("carrier")
	c.UniqueAP = cf.optStr("unique_ap")
	f.join(cf)
	return c
}

func (f *fields) call() resource.CallInfo {
	var c resource.CallInfo
	if f.has("ident") {
		c.Ident = f.callIdent("ident")
		c.Mask |= resource.CallIdentBit
	}
	if f.has("src_tna") {
		c.SrcTNA = f.addr("src_tna")
		c.Mask |= resource.CallSrcTNA
	}
	if f.has("dst_tna") {
		c.DstTNA = f.addr("dst_tna")
		c.Mask |= resource.CallDstTNA
	}
	if f.has("bandwidth") {
		c.Bandwidth = f.f32("bandwidth")
		c.Mask |= resource.CallBandwidth
	}
	if f.has("conn_type") {
		c.ConnType = resource.ConnType(f.u8("conn_type"))
		c.Mask |= resource.CallConnType
	}
	return c
}

// CallFromStruct reads the router_id and role fields and the call struct.
func CallFromStruct(s *structpb.Struct) (addr.Addr, resource.Role, resource.CallInfo, error) {
	f := newFields(s)
	routerID := f.addr(FieldRouterID)
	name := f.str(FieldRole)
	role, ok := roleByName[name]
	if !ok && f.err == nil {
		f.fail("unknown role %q", name)
	}
	cf := f.sub(FieldCall)
	c := cf.call()
	f.join(cf)
	return routerID, role, c, f.err
}

// CallsFromStruct reads the calls list of a reply.
func CallsFromStruct(s *structpb.Struct) ([]resource.CallInfo, error) {
	f := newFields(s)
	var calls []resource.CallInfo
	for _, v := range f.list(FieldCalls) {
		cf := f.subValue(FieldCalls, v)
		calls = append(calls, cf.call())
		f.join(cf)
	}
	return calls, f.err
}

// DescriptorFromStruct reads a resource in the form DescriptorToMap writes.
func DescriptorFromStruct(s *structpb.Struct) (resource.Descriptor, error) {
	f := newFields(s)
	d := f.descriptor()
	return d, f.err
}

// CallToMap converts a registered call to its message form.
func CallToMap(c resource.CallInfo) map[string]interface{} {
	m := map[string]interface{}{}
	if c.Has(resource.CallIdentBit) {
		id := map[string]interface{}{
			"type":     float64(c.Ident.Type),
			"local_id": float64(c.Ident.LocalID),
		}
		if !c.Ident.Src.IsNull() {
			id["src"] = c.Ident.Src.String()
		}
		if c.Ident.Type == resource.CallGloballyUnique {
			id["country"] = c.Ident.Country
			id["carrier"] = c.Ident.Carrier
			id["unique_ap"] = c.Ident.UniqueAP
		}
		m["ident"] = id
	}
	if c.Has(resource.CallSrcTNA) {
		m["src_tna"] = c.SrcTNA.String()
	}
	if c.Has(resource.CallDstTNA) {
		m["dst_tna"] = c.DstTNA.String()
	}
	if c.Has(resource.CallBandwidth) {
		m["bandwidth"] = float64(c.Bandwidth)
	}
	if c.Has(resource.CallConnType) {
		m["conn_type"] = float64(c.ConnType)
	}
	return m
}

// CallsToList converts calls to their message form.
func CallsToList(calls []resource.CallInfo) []interface{} {
	out := make([]interface{}, len(calls))
	for i, c := range calls {
		out[i] = CallToMap(c)
	}
	return out
}
