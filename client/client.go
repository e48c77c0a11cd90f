package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/olekukonko/tablewriter"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mayuresh82/go-gmpls-te/addr"
	"github.com/mayuresh82/go-gmpls-te/lrm"
	"github.com/mayuresh82/go-gmpls-te/telink"
)

var (
	serverAddr   = flag.String("addr", "localhost:14841", "Addr for grpc server")
	listNodes    = flag.Bool("listNodes", false, "List all TE nodes")
	listLinks    = flag.Bool("listLinks", false, "List all TE links")
	router       = flag.String("router", "", "Router id of the TE link to query")
	local        = flag.String("local", "", "Local address or 0x-prefixed unnumbered id of the TE link to query")
	showSRLGs    = flag.Bool("srlgs", false, "Show the SRLGs of a TE link")
	showISCs     = flag.Bool("iscs", false, "Show the switching capabilities of a TE link")
	showCalendar = flag.Bool("calendar", false, "Show the bandwidth calendar of a TE link")
	timeout      = flag.Duration("timeout", 10*time.Second, "RPC timeout")
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(header)
	return table
}

// list returns the struct elements of a list field.
func list(s *structpb.Struct, k string) []*structpb.Struct {
	var out []*structpb.Struct
	for _, v := range s.GetFields()[k].GetListValue().GetValues() {
		out = append(out, v.GetStructValue())
	}
	return out
}

func str(s *structpb.Struct, k string) string {
	v, ok := s.GetFields()[k]
	if !ok {
		return "-"
	}
	switch x := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return x.StringValue
	case *structpb.Value_NumberValue:
		return fmt.Sprintf("%v", x.NumberValue)
	case *structpb.Value_ListValue:
		var parts []string
		for _, e := range x.ListValue.GetValues() {
			parts = append(parts, fmt.Sprintf("%v", e.AsInterface()))
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprintf("%v", v.AsInterface())
}

func printNodes(w io.Writer, reply *structpb.Struct) {
	table := newTable(w, "ROUTER ID", "NODE ID", "STATE", "LINKS", "TNAS")
	for _, n := range list(reply, lrm.FieldNodes) {
		table.Append([]string{
			str(n, lrm.FieldRouterID), str(n, lrm.FieldNodeID), str(n, lrm.FieldState),
			str(n, lrm.FieldLinks), str(n, lrm.FieldTNAs),
		})
	}
	table.Render()
}

func printLinks(w io.Writer, reply *structpb.Struct) {
	table := newTable(w, "ROUTER ID", "LOCAL", "STATE", "LINK ID", "METRIC", "MAX BW", "SRLGS")
	for _, l := range list(reply, lrm.FieldLinks) {
		attrs := l.GetFields()[lrm.FieldAttrs].GetStructValue()
		table.Append([]string{
			str(l, lrm.FieldRouterID), str(l, lrm.FieldLocal), str(l, lrm.FieldState),
			str(attrs, "link_id"), str(attrs, "metric"), str(attrs, "max_bw"), str(attrs, lrm.FieldSRLGs),
		})
	}
	table.Render()
}

func printISCs(w io.Writer, iscs []telink.ISCD) {
	table := newTable(w, "SWCAP", "ENCODING", "MAX LSP BW", "MIN LSP BW", "MTU", "INDICATION")
	for _, d := range iscs {
		table.Append([]string{
			d.SwCap.String(), d.Encoding.String(), fmt.Sprintf("%v", d.MaxLSPBw),
			fmt.Sprintf("%v", d.MinLSPBw), fmt.Sprintf("%d", d.MTU), fmt.Sprintf("%d", d.Indication),
		})
	}
	table.Render()
}

func printCalendar(w io.Writer, events []telink.CalendarEvent) {
	table := newTable(w, "TIME", "BW")
	for _, e := range events {
		table.Append([]string{e.At().Format(time.RFC3339), fmt.Sprintf("%v", e.Bw)})
	}
	table.Render()
}

func linkKey() (lrm.LinkKey, error) {
	routerID, err := addr.Parse(*router)
	if err != nil {
		return lrm.LinkKey{}, err
	}
	l, err := addr.Parse(*local)
	if err != nil {
		return lrm.LinkKey{}, err
	}
	return lrm.NewLinkKey(routerID, l), nil
}

func main() {
	flag.Parse()
	conn, err := grpc.NewClient(*serverAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		glog.Fatalf("%v", err)
	}
	defer conn.Close()
	client := lrm.NewTeServiceClient(conn)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	if *listNodes {
		nodes, err := client.GetNodes(ctx)
		if err != nil {
			glog.Fatalf("%v", err)
		}
		printNodes(os.Stdout, nodes)
	}
	if *listLinks {
		links, err := client.GetLinks(ctx)
		if err != nil {
			glog.Fatalf("%v", err)
		}
		printLinks(os.Stdout, links)
	}
	if !*showSRLGs && !*showISCs && !*showCalendar {
		return
	}
	k, err := linkKey()
	if err != nil {
		glog.Fatalf("Bad link: %v", err)
	}
	if *showSRLGs {
		srlgs, err := client.GetSRLGs(ctx, k)
		if err != nil {
			glog.Fatalf("%v", err)
		}
		fmt.Fprintf(os.Stdout, "SRLGs: %v\n", srlgs)
	}
	if *showISCs {
		iscs, err := client.GetISCs(ctx, k)
		if err != nil {
			glog.Fatalf("%v", err)
		}
		printISCs(os.Stdout, iscs)
	}
	if *showCalendar {
		events, err := client.GetCalendar(ctx, k, 0, 0)
		if err != nil {
			glog.Fatalf("%v", err)
		}
		printCalendar(os.Stdout, events)
	}
}
