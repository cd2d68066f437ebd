package router

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spectra-rf/corefw/internal/ble"
	"github.com/spectra-rf/corefw/internal/core/domain"
	"github.com/spectra-rf/corefw/internal/core/ports"
	"github.com/spectra-rf/corefw/internal/heartbeat"
	"github.com/spectra-rf/corefw/internal/subghz"
	"github.com/spectra-rf/corefw/internal/supervisor"
	"github.com/spectra-rf/corefw/internal/telemetry"
	"github.com/spectra-rf/corefw/internal/wifi"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = telemetry.Tracer("router")

// Router parses VERB[:ARG] ingress lines and dispatches to the
// engines (spec.md §4.2). Handlers return promptly; durable work runs
// on a background goroutine that streams its own records and a
// terminal status line.
type Router struct {
	wifi   *wifi.Engine
	ble    *ble.Engine
	subghz *subghz.Engine
	hb     *heartbeat.Heartbeat
	sup    *supervisor.Supervisor
	input  ports.InputEvents
	reboot ports.Rebooter

	emit *Emitter
	log  *slog.Logger
}

// New constructs a Router wired to every engine and the shared Emitter
// (the same instance passed to each engine's constructor, so engine
// events and router replies flow through the one egress stream).
func New(wifiEng *wifi.Engine, bleEng *ble.Engine, sgEng *subghz.Engine, hb *heartbeat.Heartbeat, sup *supervisor.Supervisor, input ports.InputEvents, reboot ports.Rebooter, emit *Emitter, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{wifi: wifiEng, ble: bleEng, subghz: sgEng, hb: hb, sup: sup, input: input, reboot: reboot, emit: emit, log: log}
}

// Dispatch parses and executes one ingress line. It is the
// serialio.LineReader.Handler.
func (r *Router) Dispatch(line string) {
	verb, arg, _ := strings.Cut(strings.TrimSpace(line), ":")
	verb = strings.ToUpper(verb)

	_, span := tracer.Start(context.Background(), "router.Dispatch",
		trace.WithAttributes(attribute.String("verb", verb)))
	defer span.End()

	switch verb {
	case "SCAN_WIFI":
		r.scanWifi()
	case "SCAN_BLE":
		r.scanBle()
	case "SNIFF_START":
		r.sniffStart(arg)
	case "SNIFF_STOP":
		r.wifi.SnifferStop()
		r.emit.EmitStatus("stopped")
	case "DEAUTH":
		r.deauth(arg)
	case "BLE_SPAM":
		r.bleSpam(arg)
	case "SET_FREQ":
		r.setFreq(arg)
	case "RX_RECORD":
		r.rxRecord()
	case "TX_REPLAY":
		r.txReplay()
	case "NFC_SCAN", "NFC_EMULATE":
		r.emit.EmitStatus("started") // external collaborator, no-op here
	case "GET_INFO":
		r.hb.GetInfo()
	case "RECON_START":
		r.wifi.SetRecon(true)
		r.emit.EmitStatus("started")
	case "RECON_STOP":
		r.wifi.SetRecon(false)
		r.emit.EmitStatus("stopped")
	case "CSI_START", "CSI_STOP":
		r.emit.EmitStatus(strings.ToLower(strings.TrimPrefix(verb, "CSI_")))
	case "ANALYZER_START":
		r.analyzerStart()
	case "ANALYZER_STOP":
		r.subghz.Stop()
		r.emit.EmitStatus("stopped")
	case "SUBGHZ_BRUTE":
		r.bruteStart()
	case "STOP":
		r.stopAll()
	case "SYS_RESET":
		r.sysReset()
	case "INPUT_UP":
		r.input.Up()
	case "INPUT_DOWN":
		r.input.Down()
	case "INPUT_SELECT":
		r.input.Select()
	case "INPUT_BACK":
		r.input.Back()
	default:
		r.emit.EmitError("Unknown command")
	}
}

func (r *Router) scanWifi() {
	r.emit.EmitStatus("started")
	go func() {
		results, _, err := r.wifi.ScanStart()
		if err != nil {
			r.emit.EmitError(err.Error())
			return
		}
		r.emit.EmitWifiScanResult(results)
		r.emit.EmitStatus("complete")
	}()
}

func (r *Router) scanBle() {
	r.emit.EmitStatus("started")
	if err := r.ble.ScanStart(5000); err != nil {
		r.emit.EmitError(err.Error())
	}
}

func (r *Router) sniffStart(arg string) {
	ch, err := parseChannel(arg)
	if err != nil {
		r.emit.EmitError("Invalid channel")
		return
	}
	if err := r.wifi.SnifferStart(ch); err != nil {
		r.emit.EmitError(err.Error())
		return
	}
	r.emit.EmitStatus("started")
}

// deauth parses "AA:BB:CC:DD:EE:FF[:CH]" — the AP MAC is required and
// an optional trailing channel number may follow.
func (r *Router) deauth(arg string) {
	parts := strings.Split(arg, ":")
	if len(parts) < 6 {
		r.emit.EmitError("Invalid MAC format")
		return
	}
	ap, err := parseMACParts(parts[:6])
	if err != nil {
		r.emit.EmitError("Invalid MAC format")
		return
	}
	ch := 0
	if len(parts) >= 7 {
		n, err := strconv.Atoi(parts[6])
		if err != nil || n < 1 || n > 13 {
			r.emit.EmitError("Invalid channel")
			return
		}
		ch = n
	}

	r.emit.EmitStatus("started")
	go func() {
		res, err := r.wifi.Deauth([6]byte{}, ap, ch, 20)
		if err != nil {
			r.emit.EmitError(err.Error())
			return
		}
		r.emit.EmitDeauthResult(res.RunID, res.Success, res.Channel)
		r.emit.EmitStatus("complete")
	}()
}

func (r *Router) bleSpam(arg string) {
	if !ble.ValidTag(arg) {
		r.emit.EmitError("Invalid tag")
		return
	}
	r.emit.EmitStatus("started")
	go func() {
		if err := r.ble.SpamStart(arg, ble.SpamDefaultCount); err != nil {
			r.emit.EmitError(err.Error())
		}
	}()
}

func (r *Router) setFreq(arg string) {
	mhz, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		r.emit.EmitError("Invalid frequency")
		return
	}
	if err := r.subghz.SetFrequency(mhz); err != nil {
		r.emit.EmitError(err.Error())
		return
	}
	r.emit.EmitStatus("complete")
}

func (r *Router) rxRecord() {
	if err := r.subghz.RecordStart(32 * 1024); err != nil {
		r.emit.EmitError(err.Error())
		return
	}
	r.emit.EmitStatus("started")
}

func (r *Router) txReplay() {
	buf := r.subghz.RecordedBytes()
	if err := r.subghz.Replay(buf); err != nil {
		r.emit.EmitError(err.Error())
		return
	}
	r.emit.EmitStatus("started")
}

func (r *Router) analyzerStart() {
	if err := r.subghz.Analyzer(); err != nil {
		r.emit.EmitError(err.Error())
		return
	}
	r.emit.EmitStatus("started")
}

func (r *Router) bruteStart() {
	if err := r.subghz.Brute(); err != nil {
		r.emit.EmitError(err.Error())
		return
	}
	r.emit.EmitStatus("started")
}

func (r *Router) stopAll() {
	r.wifi.SnifferStop()
	r.ble.StopScan()
	r.subghz.Stop()
	r.sup.ForceIdle()
	r.emit.EmitStatus("stopped")
}

func (r *Router) sysReset() {
	r.emit.EmitStatus("started")
	go func() {
		time.Sleep(200 * time.Millisecond) // grace period
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := r.reboot.Reboot(ctx); err != nil {
			r.emit.EmitError(err.Error())
		}
	}()
}

func parseChannel(arg string) (int, error) {
	if arg == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 || n > 13 {
		return 0, domain.NewError(domain.KindInvalidArgument, "invalid channel")
	}
	return n, nil
}

func parseMACParts(parts []string) ([6]byte, error) {
	var mac [6]byte
	if len(parts) != 6 {
		return mac, fmt.Errorf("wrong number of MAC octets")
	}
	for i, p := range parts {
		b, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return mac, err
		}
		mac[i] = byte(b)
	}
	return mac, nil
}
