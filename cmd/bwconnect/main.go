package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bwconnect/bwconnect-go/pkg/connect"
	"github.com/bwconnect/bwconnect-go/pkg/log"

	"github.com/levenlabs/go-lflag"
)

func main() {
	// init packages
	c := connect.Configured()

	op := lflag.String("op", "devices", "operation to run: devices, properties, set-mode, set-setpoint, energy, energy-day")
	dsn := lflag.String("dsn", "", "device serial number for per-device operations")
	mode := lflag.String("mode", "", "heating mode number for set-mode (0=hybrid, 1=electric, 2=heat-pump, 3=hybrid-plus, 4=vacation)")
	setpoint := lflag.String("setpoint", "", "water setpoint in degrees for set-setpoint")
	energyType := lflag.String("energy-type", "hp", "energy series for energy operations: hp or re")
	granularity := lflag.String("granularity", "hourly", "aggregation granularity for energy: daily or hourly")
	start := lflag.String("start", "", "start of the energy range, RFC 3339")
	end := lflag.String("end", "", "end of the energy range, RFC 3339")
	day := lflag.String("day", "", "local calendar day for energy-day, YYYY-MM-DD")

	// parse flags
	lflag.Configure()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: log.ConfiguredLevel(),
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, c, options{
		op:          *op,
		dsn:         *dsn,
		mode:        *mode,
		setpoint:    *setpoint,
		energyType:  *energyType,
		granularity: *granularity,
		start:       *start,
		end:         *end,
		day:         *day,
	}); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "operation failed",
			slog.String("op", *op),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
}

type options struct {
	op          string
	dsn         string
	mode        string
	setpoint    string
	energyType  string
	granularity string
	start       string
	end         string
	day         string
}

func run(ctx context.Context, c *connect.Client, opts options) error {
	switch opts.op {
	case "devices":
		devices, err := c.GetDevices(ctx)
		if err != nil {
			return err
		}
		return print(devices)
	case "properties":
		device, err := deviceArg(opts)
		if err != nil {
			return err
		}
		props, err := c.GetDeviceProperties(ctx, device)
		if err != nil {
			return err
		}
		return print(props)
	case "set-mode":
		device, err := deviceArg(opts)
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(opts.mode)
		if err != nil {
			return fmt.Errorf("invalid -mode %q: %w", opts.mode, err)
		}
		m := connect.HeatingMode(n)
		if !m.Valid() {
			return fmt.Errorf("unknown heating mode: %d", n)
		}
		resp, err := c.SetDeviceHeatMode(ctx, device, m)
		if err != nil {
			return err
		}
		return print(resp)
	case "set-setpoint":
		device, err := deviceArg(opts)
		if err != nil {
			return err
		}
		v, err := strconv.ParseFloat(opts.setpoint, 64)
		if err != nil {
			return fmt.Errorf("invalid -setpoint %q: %w", opts.setpoint, err)
		}
		return c.UpdateDeviceSetPoint(ctx, device, v)
	case "energy":
		device, err := deviceArg(opts)
		if err != nil {
			return err
		}
		startTime, err := time.Parse(time.RFC3339, opts.start)
		if err != nil {
			return fmt.Errorf("invalid -start %q: %w", opts.start, err)
		}
		endTime, err := time.Parse(time.RFC3339, opts.end)
		if err != nil {
			return fmt.Errorf("invalid -end %q: %w", opts.end, err)
		}
		total, err := c.AggregateEnergy(ctx, device,
			connect.EnergyType(opts.energyType),
			connect.Granularity(opts.granularity),
			startTime, endTime)
		if err != nil {
			return err
		}
		return print(map[string]float64{"total_kwh": total})
	case "energy-day":
		device, err := deviceArg(opts)
		if err != nil {
			return err
		}
		date, err := time.ParseInLocation("2006-01-02", opts.day, time.Local)
		if err != nil {
			return fmt.Errorf("invalid -day %q: %w", opts.day, err)
		}
		total, err := c.GetTotalEnergyUsageForDay(ctx, device,
			connect.EnergyType(opts.energyType), date)
		if err != nil {
			return err
		}
		return print(map[string]float64{"total_kwh": total})
	}
	return fmt.Errorf("unknown -op: %q", opts.op)
}

func deviceArg(opts options) (connect.Device, error) {
	if opts.dsn == "" {
		return connect.Device{}, fmt.Errorf("-dsn is required for -op %s", opts.op)
	}
	return connect.Device{DSN: opts.dsn}, nil
}

func print(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
