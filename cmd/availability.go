package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/elie222/inbox-zero-sub003/internal/availability"
	"github.com/elie222/inbox-zero-sub003/internal/connections"
	"github.com/elie222/inbox-zero-sub003/internal/googlecal"
	"github.com/elie222/inbox-zero-sub003/internal/instrumentation"
	"github.com/elie222/inbox-zero-sub003/internal/logging"
	"github.com/elie222/inbox-zero-sub003/internal/outlook"
	"github.com/elie222/inbox-zero-sub003/internal/server"
)

// queryFlags are the flags shared by the availability and busy commands.
type queryFlags struct {
	connectionsFile string
	account         string
	startDate       string
	endDate         string
	timezone        string
	slotDuration    int
	workStart       int
	workEnd         int
	fetchTimeout    time.Duration
	metricsAddr     string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	today := time.Now().Format("2006-01-02")

	cmd.Flags().StringVar(&f.connectionsFile, "connections", "", "Path to the calendar connections JSON file (required)")
	cmd.Flags().StringVar(&f.account, "account", "", "Account ID whose connections are aggregated (required)")
	cmd.Flags().StringVar(&f.startDate, "start-date", today, "First date of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.endDate, "end-date", today, "Last date of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.timezone, "timezone", "UTC", "IANA timezone the dates are interpreted and results rendered in")
	cmd.Flags().IntVar(&f.slotDuration, "slot-duration", availability.DefaultSlotDurationMinutes, "Slot size in minutes")
	cmd.Flags().IntVar(&f.workStart, "work-start", availability.DefaultWorkDayStartHour, "First working hour of the day (0-23)")
	cmd.Flags().IntVar(&f.workEnd, "work-end", availability.DefaultWorkDayEndHour, "Hour the working day ends (1-24)")
	cmd.Flags().DurationVar(&f.fetchTimeout, "fetch-timeout", availability.DefaultFetchTimeout, "Per-connection provider fetch timeout")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (empty disables)")

	_ = cmd.MarkFlagRequired("connections")
	_ = cmd.MarkFlagRequired("account")
}

func (f *queryFlags) request() availability.Request {
	return availability.Request{
		AccountID:           f.account,
		StartDate:           f.startDate,
		EndDate:             f.endDate,
		Timezone:            f.timezone,
		SlotDurationMinutes: f.slotDuration,
		WorkHours: availability.WorkHours{
			StartHour: f.workStart,
			EndHour:   f.workEnd,
		},
	}
}

// buildService wires the connection store, provider adapters and optional
// instrumentation into an availability service. The returned cleanup
// function stops the metrics server and flushes instrumentation.
func (f *queryFlags) buildService(ctx context.Context) (*availability.Service, func(), error) {
	logger := slog.Default()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.Enabled = f.metricsAddr != ""
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}

	var metricsServer *server.MetricsServer
	if provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:            f.metricsAddr,
			Instrumentation: provider,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", logging.Err(err))
			}
		}()
	}

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("failed to shut down metrics server", logging.Err(err))
			}
		}
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down instrumentation", logging.Err(err))
		}
	}

	svc, err := availability.NewService(availability.Config{
		Store: connections.NewFileStore(f.connectionsFile),
		Google: googlecal.New(googlecal.Config{
			Logger:        logger,
			OnTokenUpdate: logRefreshedToken(logger),
		}),
		Microsoft: outlook.New(outlook.Config{
			Logger:        logger,
			OnTokenUpdate: logRefreshedToken(logger),
		}),
		Logger:       logger,
		Metrics:      provider.Metrics(),
		FetchTimeout: f.fetchTimeout,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create availability service: %w", err)
	}

	return svc, cleanup, nil
}

func newAvailabilityCmd() *cobra.Command {
	var flags queryFlags
	var suggest int

	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Print per-day availability for an account's connected calendars",
		Long: `Aggregate busy periods from every connected calendar of the account,
merge them, and print one availability entry per day in the range: the
merged busy periods overlapping that day plus the working-hours time slots
tagged available or busy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			svc, cleanup, err := flags.buildService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			days, err := svc.Availability(ctx, flags.request())
			if err != nil {
				return fmt.Errorf("failed to compute availability: %w", err)
			}

			if suggest > 0 {
				return printJSON(cmd, availabilityOutput{
					Days:        days,
					Suggestions: suggestAcrossDays(days, suggest),
				})
			}
			return printJSON(cmd, days)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&suggest, "suggest", 0, "Also print up to N ranked slot suggestions (0 disables)")
	return cmd
}

func newBusyCmd() *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "busy",
		Short: "Print the merged busy periods for an account's connected calendars",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			svc, cleanup, err := flags.buildService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := svc.FetchBusyPeriods(ctx, flags.request())
			if err != nil {
				return fmt.Errorf("failed to fetch busy periods: %w", err)
			}
			return printJSON(cmd, result)
		},
	}

	flags.register(cmd)
	return cmd
}

// availabilityOutput is the availability command's JSON envelope when slot
// suggestions are requested.
type availabilityOutput struct {
	Days        []availability.DayAvailability `json:"days"`
	Suggestions []availability.Suggestion      `json:"suggestions"`
}

// suggestAcrossDays ranks the available slots of the whole range together,
// so a morning slot later in the week still outranks an afternoon slot
// tomorrow.
func suggestAcrossDays(days []availability.DayAvailability, max int) []availability.Suggestion {
	var slots []availability.TimeSlot
	for _, day := range days {
		slots = append(slots, day.TimeSlots...)
	}
	return availability.SuggestSlots(slots, max)
}

// logRefreshedToken returns a token update callback for the CLI, which has
// no persistence of its own: the refresh is logged so the operator knows
// the connections file holds a stale access token.
func logRefreshedToken(logger *slog.Logger) availability.TokenUpdateFunc {
	return func(_ context.Context, connectionID string, token *oauth2.Token) error {
		logger.Info("access token refreshed; connections file is now stale",
			logging.Connection(connectionID),
			slog.Time("expiry", token.Expiry))
		return nil
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
