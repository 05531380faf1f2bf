// Package monitoring turns the event layer into a small web server so that a
// running simulation can be observed from the outside.
package monitoring

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/devskit/eventcore/event"
	"github.com/devskit/eventcore/monitoring/web"
)

const recentEventCap = 1024

// Monitor observes event publishers and serves their state over HTTP.
type Monitor struct {
	portNumber int
	publishers []*event.Publisher

	recentLock sync.Mutex
	recent     []recentEvent
	nextSeq    uint64
}

type recentEvent struct {
	Seq    uint64 `json:"seq"`
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Source string `json:"source,omitempty"`

	payload event.Event
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterPublisher registers a publisher to be monitored. The monitor hooks
// into the publisher and keeps a bounded window of the events published
// through it.
func (m *Monitor) RegisterPublisher(p *event.Publisher) {
	m.publishers = append(m.publishers, p)

	p.AcceptHook(&captureHook{monitor: m})
}

type captureHook struct {
	monitor *Monitor
}

func (h *captureHook) Func(ctx event.HookCtx) {
	evt, ok := ctx.Item.(event.Event)
	if !ok {
		return
	}

	switch ctx.Pos {
	case event.HookPosPublish:
		src, _ := ctx.Detail.(event.Entity)
		h.monitor.capture(evt, src)
	case event.HookPosRelease:
		h.monitor.evictPayload(evt)
	}
}

func (m *Monitor) capture(evt event.Event, src event.Entity) {
	m.recentLock.Lock()
	defer m.recentLock.Unlock()

	entry := recentEvent{
		Seq:     m.nextSeq,
		Kind:    string(evt.Kind()),
		payload: evt,
	}
	m.nextSeq++

	if identified, ok := evt.(event.Identified); ok {
		entry.ID = identified.EventID()
	}

	if src != nil {
		entry.Source = src.Name()
	}

	m.recent = append(m.recent, entry)
	if len(m.recent) > recentEventCap {
		m.recent = m.recent[len(m.recent)-recentEventCap:]
	}
}

// evictPayload forgets the payload of a released event. The metadata stays
// in the recent window, but the payload may recycle its resources in
// Release, so the monitor must not read it after the last holder drops.
func (m *Monitor) evictPayload(evt event.Event) {
	m.recentLock.Lock()
	defer m.recentLock.Unlock()

	for i := range m.recent {
		if m.recent[i].payload == evt {
			m.recent[i].payload = nil
		}
	}
}

// StartServer starts the monitor as a web server. The listening port comes
// from WithPortNumber, or from EVENTCORE_MONITOR_PORT when set in the
// environment or a .env file.
func (m *Monitor) StartServer() {
	_ = godotenv.Load()

	r := m.createRouter()
	http.Handle("/", r)

	actualPort := ":0"
	if port := m.resolvePort(); port > 1000 {
		actualPort = ":" + strconv.Itoa(port)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring events with %s\n", url)

	if autoOpenEnabled() {
		_ = browser.OpenURL(url)
	}

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()
}

func (m *Monitor) resolvePort() int {
	if m.portNumber != 0 {
		return m.portNumber
	}

	evValue, exist := os.LookupEnv("EVENTCORE_MONITOR_PORT")
	if !exist {
		return 0
	}

	port, err := strconv.Atoi(evValue)
	if err != nil {
		return 0
	}

	return port
}

func autoOpenEnabled() bool {
	evValue, exist := os.LookupEnv("EVENTCORE_MONITOR_OPEN")
	if !exist {
		return false
	}

	return strings.ToLower(evValue) == "true" || evValue == "1"
}

func (m *Monitor) createRouter() *mux.Router {
	r := mux.NewRouter()

	fServer := http.FileServer(web.GetAssets())
	r.HandleFunc("/api/kinds", m.listKinds)
	r.HandleFunc("/api/live", m.listLiveCounts)
	r.HandleFunc("/api/events", m.listRecentEvents)
	r.HandleFunc("/api/event/{seq}", m.listEventDetail)
	r.HandleFunc("/api/resource", m.listResources)
	r.PathPrefix("/").Handler(fServer)

	return r
}

func (m *Monitor) listKinds(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i, k := range event.Kinds() {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "\"%s\"", k)
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) listLiveCounts(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i, p := range m.publishers {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "{\"publisher\":%d,\"live\":%d}", i, p.LiveCount())
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) listRecentEvents(w http.ResponseWriter, _ *http.Request) {
	m.recentLock.Lock()
	defer m.recentLock.Unlock()

	fmt.Fprint(w, "[")
	for i, entry := range m.recent {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w,
			"{\"seq\":%d,\"id\":\"%s\",\"kind\":\"%s\",\"source\":\"%s\"}",
			entry.Seq, entry.ID, entry.Kind, entry.Source)
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) listEventDetail(w http.ResponseWriter, r *http.Request) {
	seqStr := mux.Vars(r)["seq"]

	seq, err := strconv.ParseUint(seqStr, 10, 64)
	if err != nil {
		w.WriteHeader(400)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	evt := m.findRecentOr404(w, seq)
	if evt == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(evt)
	serializer.SetMaxDepth(2)

	err = serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) findRecentOr404(
	w http.ResponseWriter,
	seq uint64,
) event.Event {
	m.recentLock.Lock()
	defer m.recentLock.Unlock()

	for _, entry := range m.recent {
		if entry.Seq == seq && entry.payload != nil {
			return entry.payload
		}
	}

	w.WriteHeader(404)
	fmt.Fprintf(w, "event %d is not in the recent window", seq)

	return nil
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memorySize, err := proc.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	fmt.Fprintf(w, "{\"cpu_percent\":%f,\"memory_size\":%d}",
		rsp.CPUPercent, rsp.MemorySize)
}

func dieOnErr(err error) {
	if err != nil {
		panic(err)
	}
}
