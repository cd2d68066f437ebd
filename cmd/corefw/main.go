// Command corefw is the handheld wireless security tool's firmware
// core: it owns the 802.11/BLE/sub-GHz engines, the radio supervisor,
// and the serial command plane, and is the process entrypoint on both
// real hardware and the development host (--mock).
package main

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spectra-rf/corefw/internal/ble"
	"github.com/spectra-rf/corefw/internal/config"
	"github.com/spectra-rf/corefw/internal/core/domain"
	"github.com/spectra-rf/corefw/internal/core/ports"
	"github.com/spectra-rf/corefw/internal/heartbeat"
	"github.com/spectra-rf/corefw/internal/mockhw"
	"github.com/spectra-rf/corefw/internal/router"
	"github.com/spectra-rf/corefw/internal/serialio"
	"github.com/spectra-rf/corefw/internal/subghz"
	"github.com/spectra-rf/corefw/internal/supervisor"
	"github.com/spectra-rf/corefw/internal/telemetry"
	"github.com/spectra-rf/corefw/internal/wifi"
)

// noopCollector is the active-scan probe-and-parse step used when no
// board-layer scan driver is wired (spec §1's external-collaborator
// boundary covers the actual probe/beacon decode); it reports no
// networks found on every channel.
func noopCollector(channel int, dwell time.Duration) []domain.ScanResult { return nil }

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("corefw starting")

	cfg := config.Load()
	telemetry.Init()
	_, shutdownTracing, err := telemetry.InitTracing(os.Stderr)
	if err != nil {
		slog.Warn("tracing init failed, continuing without spans", "err", err)
	} else {
		defer shutdownTracing(context.Background())
	}

	sup := supervisor.New(logger)

	var (
		wifiCap   ports.Wifi80211
		bleCap    ports.BleController
		subghzCap ports.SubGHzTransceiver
		inputCap  ports.InputEvents
		reboot    ports.Rebooter
		nfcPresent, cc1101Present bool
	)

	if cfg.MockHardware {
		slog.Info("running in mock hardware mode, no real radios attached")
		wifiCap = mockhw.NewWifi()
		bleCap = mockhw.NewBLE()
		subghzCap = mockhw.NewSubGHz()
		inputCap = &mockhw.Input{Log: logger}
		reboot = &mockhw.Rebooter{Log: logger}
		cc1101Present = true
	} else {
		// Real capability wiring is the board layer's responsibility
		// (spec §1's external-collaborator boundary): it supplies
		// concrete Wifi80211/BleController/SubGHzTransceiver
		// implementations over the SoC's radio MAC/PHY and the
		// periph.io SPI/I2C bus. None is available on this host, so the
		// mockhw stand-ins are wired here as well and sys_info reports
		// NFC and CC1101 as absent.
		slog.Warn("no real radio drivers wired on this build; using stand-ins, sys_info reports nfc/cc1101 absent")
		wifiCap = mockhw.NewWifi()
		bleCap = mockhw.NewBLE()
		subghzCap = mockhw.NewSubGHz()
		inputCap = &mockhw.Input{Log: logger}
		reboot = &mockhw.Rebooter{Log: logger}
	}

	transport, err := serialio.OpenTransport(serialio.TransportConfig{
		Device: cfg.SerialDevice, Baud: cfg.SerialBaud, USBCDC: cfg.USBCDC,
	})
	if err != nil {
		slog.Error("failed to open serial transport", "err", err)
		os.Exit(1)
	}
	defer transport.Close()

	egress := serialio.NewEgress(transport, cfg.EgressTimeout, logger)
	emit := router.NewEmitter(egress)

	wifiEngine := wifi.NewEngine(wifiCap, sup, emit, noopCollector, logger)
	bleEngine := ble.New(bleCap, sup, emit, logger)
	sup.SetStopHooks(wifiEngine.Suspend, bleEngine.Suspend)
	subghzEngine := subghz.New(subghzCap, sup, emit, logger)
	hb := heartbeat.New(emit, heartbeat.Capabilities{
		Chip: "corefw", Version: "dev", NFC: nfcPresent, CC1101: cc1101Present,
	})

	r := router.New(wifiEngine, bleEngine, subghzEngine, hb, sup, inputCap, reboot, emit, logger)

	if err := bleEngine.Init(); err != nil {
		slog.Warn("ble init failed, BLE features unavailable", "err", err)
	}
	defer bleEngine.Deinit()

	lineReader := serialio.NewLineReader(cfg.IngressLineMax, logger)
	lineReader.Handler = r.Dispatch
	lineReader.OnOverflow = func() { egress.SendJSON(serialio.ErrorLine("ingress line overflow")) }

	stop := make(chan struct{})
	go serialio.RunReader(bufio.NewReader(transport), lineReader, stop)

	go hb.Run(ctx)

	slog.Info("corefw ready")
	<-ctx.Done()
	close(stop)
	slog.Info("corefw shutting down")
}
