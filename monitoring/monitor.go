// Package monitoring serves the clock tree of a registry over HTTP, so that
// clocks can be inspected and driven from a browser or a script.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/clocktree/clock"
	"github.com/sarchlab/clocktree/epld"
	"github.com/sarchlab/clocktree/monitoring/web"
)

// ServiceType is the mDNS service type the monitor advertises.
const ServiceType = "_clktree._tcp"

// PowerManager can suspend and resume all the clocks.
type PowerManager interface {
	Suspend() error
	Resume() error
	Suspended() bool
}

// Monitor turns a clock registry into a web server.
type Monitor struct {
	reg        *clock.Registry
	pm         PowerManager
	irq        *epld.Controller
	portNumber int

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	server *http.Server
	mdns   *zeroconf.Server
	port   int
}

// NewMonitor creates a new Monitor for the registry.
func NewMonitor(reg *clock.Registry) *Monitor {
	return &Monitor{reg: reg}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterPowerManager enables the suspend and resume endpoints.
func (m *Monitor) RegisterPowerManager(pm PowerManager) {
	m.pm = pm
}

// RegisterEPLD enables the interrupt endpoints.
func (m *Monitor) RegisterEPLD(c *epld.Controller) {
	m.irq = c
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := newProgressBar(name, total)

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Router returns the handler of all the monitor endpoints.
func (m *Monitor) Router() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/clocks", m.listClocks).Methods(http.MethodGet)
	api.HandleFunc("/tree", m.tree).Methods(http.MethodGet)
	api.HandleFunc("/clock/{name}", m.clockDetails).Methods(http.MethodGet)
	api.HandleFunc("/clock/{name}/enable", m.enable).Methods(http.MethodPost)
	api.HandleFunc("/clock/{name}/disable", m.disable).Methods(http.MethodPost)
	api.HandleFunc("/clock/{name}/rate", m.setRate).Methods(http.MethodPost)
	api.HandleFunc("/clock/{name}/round", m.roundRate).Methods(http.MethodGet)
	api.HandleFunc("/clock/{name}/parent", m.setParent).Methods(http.MethodPost)
	api.HandleFunc("/clock/{name}/measure", m.measure).Methods(http.MethodGet)
	api.HandleFunc("/clock/{name}/observe", m.observe).Methods(http.MethodGet)
	api.HandleFunc("/suspend", m.suspend).Methods(http.MethodPost)
	api.HandleFunc("/resume", m.resume).Methods(http.MethodPost)
	api.HandleFunc("/irq", m.listIRQ).Methods(http.MethodGet)
	api.HandleFunc("/irq/{line}/{op:mask|unmask|ack}", m.irqOp).
		Methods(http.MethodPost)
	api.HandleFunc("/progress", m.listProgressBars).Methods(http.MethodGet)
	api.HandleFunc("/resource", m.listResources).Methods(http.MethodGet)
	api.HandleFunc("/profile", m.collectProfile).Methods(http.MethodGet)

	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	m.port = listener.Addr().(*net.TCPAddr).Port
	m.server = &http.Server{
		Handler:           m.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	url := fmt.Sprintf("http://localhost:%d", m.port)
	fmt.Fprintf(os.Stderr, "Monitoring clock tree with %s\n", url)

	go func() {
		err := m.server.Serve(listener)
		if !errors.Is(err, http.ErrServerClosed) {
			dieOnErr(err)
		}
	}()

	return url
}

// Advertise announces the running server on the local network with mDNS.
func (m *Monitor) Advertise(instance string, txt ...string) error {
	if m.server == nil {
		return errors.New("monitor server not started")
	}

	server, err := zeroconf.Register(
		instance, ServiceType, "local.", m.port, txt, nil)
	if err != nil {
		return fmt.Errorf("advertising monitor: %w", err)
	}

	m.mdns = server

	return nil
}

// Shutdown stops the advertisement and the server.
func (m *Monitor) Shutdown(ctx context.Context) error {
	if m.mdns != nil {
		m.mdns.Shutdown()
		m.mdns = nil
	}

	if m.server == nil {
		return nil
	}

	return m.server.Shutdown(ctx)
}

func (m *Monitor) listClocks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.reg.Snapshot())
}

type treeNode struct {
	Name       string      `json:"name"`
	Rate       clock.Freq  `json:"rate"`
	UsageCount int         `json:"usage_count"`
	Enabled    bool        `json:"enabled"`
	Children   []*treeNode `json:"children,omitempty"`
}

func buildTree(infos []clock.Info) []*treeNode {
	nodes := make(map[string]*treeNode, len(infos))
	for _, info := range infos {
		nodes[info.Name] = &treeNode{
			Name:       info.Name,
			Rate:       info.Rate,
			UsageCount: info.UsageCount,
			Enabled:    info.Enabled,
		}
	}

	roots := []*treeNode{}

	for _, info := range infos {
		n := nodes[info.Name]

		for _, c := range info.Children {
			if child, ok := nodes[c]; ok {
				n.Children = append(n.Children, child)
			}
		}

		if info.Parent == "" {
			roots = append(roots, n)
		}
	}

	return roots
}

func (m *Monitor) tree(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, buildTree(m.reg.Snapshot()))
}

func (m *Monitor) findClockOr404(w http.ResponseWriter, r *http.Request) *clock.Node {
	n, err := m.reg.Lookup(mux.Vars(r)["name"])
	if err != nil {
		writeError(w, err)
		return nil
	}

	return n
}

func (m *Monitor) writeInfo(w http.ResponseWriter, n *clock.Node) {
	info, err := m.reg.Info(n)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, info)
}

func (m *Monitor) clockDetails(w http.ResponseWriter, r *http.Request) {
	n := m.findClockOr404(w, r)
	if n == nil {
		return
	}

	info, err := m.reg.Info(n)
	if err != nil {
		writeError(w, err)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(info)
	serializer.SetMaxDepth(1)

	if field := r.URL.Query().Get("field"); field != "" {
		err := serializer.SetEntryPoint(strings.Split(field, "."))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	dieOnErr(serializer.Serialize(w))
}

func (m *Monitor) enable(w http.ResponseWriter, r *http.Request) {
	n := m.findClockOr404(w, r)
	if n == nil {
		return
	}

	if err := m.reg.Enable(n); err != nil {
		writeError(w, err)
		return
	}

	m.writeInfo(w, n)
}

func (m *Monitor) disable(w http.ResponseWriter, r *http.Request) {
	n := m.findClockOr404(w, r)
	if n == nil {
		return
	}

	if err := m.reg.Disable(n); err != nil {
		writeError(w, err)
		return
	}

	m.writeInfo(w, n)
}

// targetRate reads the hz parameter, which may carry a unit.
func targetRate(w http.ResponseWriter, r *http.Request) (clock.Freq, bool) {
	target, err := clock.ParseFreq(r.URL.Query().Get("hz"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return 0, false
	}

	return target, true
}

func (m *Monitor) setRate(w http.ResponseWriter, r *http.Request) {
	n := m.findClockOr404(w, r)
	if n == nil {
		return
	}

	target, ok := targetRate(w, r)
	if !ok {
		return
	}

	if err := m.reg.SetRate(n, target); err != nil {
		writeError(w, err)
		return
	}

	m.writeInfo(w, n)
}

type rateRsp struct {
	Name string     `json:"name"`
	Rate clock.Freq `json:"rate"`
}

func (m *Monitor) roundRate(w http.ResponseWriter, r *http.Request) {
	n := m.findClockOr404(w, r)
	if n == nil {
		return
	}

	target, ok := targetRate(w, r)
	if !ok {
		return
	}

	rate, err := m.reg.RoundRate(n, target)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, rateRsp{Name: n.Name(), Rate: rate})
}

func (m *Monitor) setParent(w http.ResponseWriter, r *http.Request) {
	n := m.findClockOr404(w, r)
	if n == nil {
		return
	}

	parent, err := m.reg.Lookup(r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := m.reg.SetParent(n, parent); err != nil {
		writeError(w, err)
		return
	}

	m.writeInfo(w, n)
}

func (m *Monitor) measure(w http.ResponseWriter, r *http.Request) {
	n := m.findClockOr404(w, r)
	if n == nil {
		return
	}

	rate, err := m.reg.Measure(n)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, rateRsp{Name: n.Name(), Rate: rate})
}

type observeRsp struct {
	Name    string `json:"name"`
	Divisor uint32 `json:"divisor"`
}

func (m *Monitor) observe(w http.ResponseWriter, r *http.Request) {
	n := m.findClockOr404(w, r)
	if n == nil {
		return
	}

	div, err := m.reg.Observe(n)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, observeRsp{Name: n.Name(), Divisor: div})
}

type pmRsp struct {
	Suspended bool `json:"suspended"`
}

func (m *Monitor) suspend(w http.ResponseWriter, _ *http.Request) {
	m.powerOp(w, func(pm PowerManager) error { return pm.Suspend() })
}

func (m *Monitor) resume(w http.ResponseWriter, _ *http.Request) {
	m.powerOp(w, func(pm PowerManager) error { return pm.Resume() })
}

func (m *Monitor) powerOp(w http.ResponseWriter, op func(pm PowerManager) error) {
	if m.pm == nil {
		http.Error(w, "no power manager", http.StatusNotFound)
		return
	}

	if err := op(m.pm); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, pmRsp{Suspended: m.pm.Suspended()})
}

type irqRsp struct {
	epld.Line

	Masked  bool `json:"masked"`
	Pending bool `json:"pending"`
}

func (m *Monitor) listIRQ(w http.ResponseWriter, _ *http.Request) {
	if m.irq == nil {
		http.Error(w, "no interrupt controller", http.StatusNotFound)
		return
	}

	pending := make(map[int]bool)
	for _, irq := range m.irq.Pending() {
		pending[irq] = true
	}

	rsp := []irqRsp{}

	for _, l := range m.irq.Lines() {
		masked, err := m.irq.Masked(l.IRQ)
		dieOnErr(err)

		rsp = append(rsp, irqRsp{Line: l, Masked: masked, Pending: pending[l.IRQ]})
	}

	writeJSON(w, rsp)
}

func (m *Monitor) irqOp(w http.ResponseWriter, r *http.Request) {
	if m.irq == nil {
		http.Error(w, "no interrupt controller", http.StatusNotFound)
		return
	}

	vars := mux.Vars(r)

	line, err := strconv.Atoi(vars["line"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	switch vars["op"] {
	case "mask":
		err = m.irq.Mask(line)
	case "unmask":
		err = m.irq.Unmask(line)
	case "ack":
		err = m.irq.Ack(line)
	}

	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]progressRsp, 0, len(m.progressBars))

	for _, b := range m.progressBars {
		bars = append(bars, b.status())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

// statusOf maps registry errors to HTTP status codes. Anything that is not a
// caller mistake is a hardware failure.
func statusOf(err error) int {
	switch {
	case errors.Is(err, clock.ErrNotFound),
		errors.Is(err, clock.ErrParentNotFound),
		errors.Is(err, epld.ErrUnknownLine):
		return http.StatusNotFound
	case errors.Is(err, clock.ErrUnsupported):
		return http.StatusMethodNotAllowed
	case errors.Is(err, clock.ErrNotEnabled),
		errors.Is(err, clock.ErrInUse),
		errors.Is(err, clock.ErrCycle),
		errors.Is(err, clock.ErrHasChildren):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusOf(err))
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
