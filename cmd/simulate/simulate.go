// Package simulate drives the crash pipeline through one synthetic failure
// so an operator can check what a report looks like end to end.
package simulate

import (
	"context"
	"errors"
	"fmt"

	"crashwatch/src/bootstrap"
	"crashwatch/src/breadcrumb"
	"crashwatch/src/connectors"
	"crashwatch/src/model"

	"github.com/sirupsen/logrus"
)

const (
	KindPanic     = "panic"
	KindRejection = "rejection"
	KindError     = "error"
	KindBoundary  = "boundary"
	KindNetwork   = "network"
)

// Kinds lists the supported failure kinds.
var Kinds = []string{KindPanic, KindRejection, KindError, KindBoundary, KindNetwork}

type Simulator struct {
	App    *bootstrap.App
	Client *connectors.Client
	Kind   string
	Log    *logrus.Entry
}

// Start installs the pipeline, leaves some console output and a click
// behind, then raises one failure of the configured kind. It returns the
// report the failure produced.
func (s *Simulator) Start(ctx context.Context) (*model.CrashReport, error) {
	if s.App == nil {
		return nil, errors.New("simulator has no app")
	}
	log := s.Log
	if log == nil {
		log = logrus.WithField("cmd", "simulate")
	}

	s.App.Install()

	log.WithField("kind", s.Kind).Info("Simulating failure")
	s.App.Console.Info("opening board", map[string]any{"boardId": "demo"})
	s.App.Console.Warn("column render took", 1200, "ms")
	s.App.Document.Dispatch(&breadcrumb.Event{
		Type: "click",
		Target: &breadcrumb.Element{
			Tag:        "button",
			Attributes: map[string]string{"data-testid": "move-card"},
			Text:       "Move to Done",
		},
	})

	before := s.App.Reporter.Last()

	switch s.Kind {
	case KindPanic:
		s.App.Supervisor.Go(func() error {
			var cards map[string]int
			cards["done"]++
			return nil
		})
		s.App.Supervisor.Wait()
	case KindRejection:
		s.App.Supervisor.Go(func() error {
			return errors.New("move card request rejected")
		})
		s.App.Supervisor.Wait()
	case KindError:
		s.App.Supervisor.Fail("card %s vanished while dragging", "demo-42")
	case KindBoundary:
		s.App.Boundary.Guard([]string{"App", "Board", "Column", "Card"}, func() {
			panic(fmt.Errorf("card %q has no column", "demo-42"))
		})
	case KindNetwork:
		if s.Client == nil {
			return nil, errors.New("network simulation needs a client")
		}
		if err := s.Client.Get(ctx, "/boards/demo", nil); err != nil {
			log.WithError(err).Warn("Board request failed")
		}
	default:
		return nil, fmt.Errorf("unknown failure kind %q (want one of %v)", s.Kind, Kinds)
	}

	report := s.App.Reporter.Last()
	if report == nil || report == before {
		return nil, fmt.Errorf("%s simulation produced no crash report", s.Kind)
	}
	return report, nil
}
