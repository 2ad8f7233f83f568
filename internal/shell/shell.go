package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/service/lot"
	lotModels "github.com/m04kA/SMC-ParkingService/internal/service/lot/models"
	sessionModels "github.com/m04kA/SMC-ParkingService/internal/service/sessions/models"
	recordEntry "github.com/m04kA/SMC-ParkingService/internal/usecase/record_entry"
	recordExit "github.com/m04kA/SMC-ParkingService/internal/usecase/record_exit"
)

const historyLimit = 10

// Shell интерактивный режим: те же use cases, что и в HTTP API, но команды читаются построчно
type Shell struct {
	entry    EntryRecorder
	exit     ExitRecorder
	lot      LotService
	sessions SessionService

	in  *bufio.Scanner
	out io.Writer
}

func New(entry EntryRecorder, exit ExitRecorder, lot LotService, sessions SessionService, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		entry:    entry,
		exit:     exit,
		lot:      lot,
		sessions: sessions,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run читает команды до EOF, команды exit или отмены контекста
func (s *Shell) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		if !s.in.Scan() {
			return s.in.Err()
		}

		input := strings.TrimSpace(s.in.Text())
		if input == "" {
			continue
		}

		if !s.processCommand(ctx, input) {
			return nil
		}
	}
	return ctx.Err()
}

// processCommand возвращает false на команду exit
func (s *Shell) processCommand(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	command := parts[0]

	switch command {
	case "create_parking_lot":
		s.handleCreateParkingLot(ctx, parts)
	case "park":
		s.handlePark(ctx, parts)
	case "leave":
		s.handleLeave(ctx, parts)
	case "status":
		s.handleStatus(ctx)
	case "history":
		s.handleHistory(ctx, parts)
	case "help":
		s.printHelp()
	case "exit", "quit":
		return false
	default:
		s.printf("Unknown command: %s\n", command)
	}
	return true
}

func (s *Shell) handleCreateParkingLot(ctx context.Context, parts []string) {
	if len(parts) != 2 {
		s.printf("Usage: create_parking_lot <capacity>\n")
		return
	}

	capacity, err := strconv.Atoi(parts[1])
	if err != nil {
		s.printf("Invalid capacity\n")
		return
	}

	res, err := s.lot.Configure(ctx, &lotModels.ConfigureLotRequest{TotalCapacity: capacity})
	if err != nil {
		switch {
		case errors.Is(err, lot.ErrInvalidInput):
			s.printf("Invalid capacity\n")
		case errors.Is(err, lot.ErrCapacityBelowOccupancy):
			s.printf("Cannot shrink to %d slots: too many parked vehicles\n", capacity)
		default:
			s.printf("Error: %v\n", err)
		}
		return
	}

	if res.Created {
		s.printf("Created a parking lot with %d slots\n", res.TotalCapacity)
		return
	}
	s.printf("Parking lot resized to %d slots, %d available\n", res.TotalCapacity, res.AvailableSpots)
}

func (s *Shell) handlePark(ctx context.Context, parts []string) {
	if len(parts) != 3 {
		s.printf("Usage: park <license_plate> <spot>\n")
		return
	}

	res, err := s.entry.Execute(ctx, &recordEntry.Request{LicensePlate: parts[1], ParkingSpot: parts[2]})
	if err != nil {
		switch {
		case errors.Is(err, recordEntry.ErrLotFull):
			s.printf("Sorry, parking lot is full\n")
		case errors.Is(err, recordEntry.ErrAlreadyParked):
			s.printf("Vehicle %s is already parked\n", parts[1])
		case errors.Is(err, recordEntry.ErrConfigurationNotFound):
			s.printf("Parking lot not created\n")
		case errors.Is(err, recordEntry.ErrInvalidInput):
			s.printf("Invalid license plate or spot\n")
		default:
			s.printf("Error: %v\n", err)
		}
		return
	}

	s.printf("Parked %s at %s (session %d), %d spots left\n",
		res.LicensePlate, res.ParkingSpot, res.ID, res.AvailableSpots)
}

func (s *Shell) handleLeave(ctx context.Context, parts []string) {
	if len(parts) != 2 && len(parts) != 3 {
		s.printf("Usage: leave <license_plate> [rate_per_hour]\n")
		return
	}

	req := &recordExit.Request{LicensePlate: parts[1]}
	if len(parts) == 3 {
		rate, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			s.printf("Invalid rate\n")
			return
		}
		req.RatePerHour = &rate
	}

	res, err := s.exit.Execute(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, recordExit.ErrSessionNotFound):
			s.printf("Not found\n")
		case errors.Is(err, recordExit.ErrInvalidInput):
			s.printf("Invalid license plate or rate\n")
		default:
			s.printf("Error: %v\n", err)
		}
		return
	}

	s.printf("%s left %s after %s: %d h x $%.2f = $%.2f\n",
		res.LicensePlate, res.ParkingSpot, res.Duration.Round(time.Minute), res.DurationHours, res.RatePerHour, res.Fee)
}

func (s *Shell) handleStatus(ctx context.Context) {
	avail, err := s.lot.GetAvailability(ctx)
	if err != nil {
		if errors.Is(err, lot.ErrConfigurationNotFound) {
			s.printf("Parking lot not created\n")
			return
		}
		s.printf("Error: %v\n", err)
		return
	}

	s.printf("Capacity: %d, available: %d, occupied: %d\n",
		avail.TotalCapacity, avail.AvailableSpots, avail.OccupiedSpots)

	status := "parked"
	list, err := s.sessions.List(ctx, &sessionModels.ListSessionsRequest{Status: &status})
	if err != nil {
		s.printf("Error: %v\n", err)
		return
	}
	if len(list.Sessions) == 0 {
		return
	}

	s.printf("Spot\tLicense plate\tSince\n")
	for _, sess := range list.Sessions {
		s.printf("%s\t%s\t%s\n", sess.ParkingSpot, sess.LicensePlate, sess.EntryTime.Format(time.RFC3339))
	}
}

func (s *Shell) handleHistory(ctx context.Context, parts []string) {
	if len(parts) != 2 {
		s.printf("Usage: history <license_plate>\n")
		return
	}

	plate := parts[1]
	list, err := s.sessions.List(ctx, &sessionModels.ListSessionsRequest{LicensePlate: &plate, Limit: historyLimit})
	if err != nil {
		s.printf("Error: %v\n", err)
		return
	}
	if len(list.Sessions) == 0 {
		s.printf("No sessions for %s\n", plate)
		return
	}

	for _, sess := range list.Sessions {
		if !sess.Fee.Valid {
			s.printf("#%d %s since %s (parked)\n", sess.ID, sess.ParkingSpot, sess.EntryTime.Format(time.RFC3339))
			continue
		}
		s.printf("#%d %s %s - %s, %d h, $%.2f\n", sess.ID, sess.ParkingSpot,
			sess.EntryTime.Format(time.RFC3339), sess.ExitTime.Time.Format(time.RFC3339),
			sess.BilledHours.Int64, sess.Fee.Float64)
	}
}

func (s *Shell) printHelp() {
	s.printf(`Commands:
  create_parking_lot <capacity>
  park <license_plate> <spot>
  leave <license_plate> [rate_per_hour]
  status
  history <license_plate>
  exit
`)
}

func (s *Shell) printf(format string, v ...interface{}) {
	fmt.Fprintf(s.out, format, v...)
}
