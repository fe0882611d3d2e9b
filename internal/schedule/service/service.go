package service

import (
	"context"
	"strings"
	"time"

	"fieldservice_backend/internal/cache"
	"fieldservice_backend/internal/schedule/board"
	"fieldservice_backend/internal/schedule/droptarget"
	"fieldservice_backend/internal/schedule/quickmenu"
	"fieldservice_backend/internal/schedule/transport"
	"fieldservice_backend/internal/schedule/week"
	wotransport "fieldservice_backend/internal/workorders/transport"
	"fieldservice_backend/platform/apperr"
	"fieldservice_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// WorkOrderSource supplies the board's order data.
type WorkOrderSource interface {
	// ScheduledInWindow returns schedule projections of every order dated
	// inside [from, to], inclusive.
	ScheduledInWindow(ctx context.Context, from, to time.Time) ([]board.Order, error)
	// Backlog returns unscheduled, non-terminal orders, oldest first.
	Backlog(ctx context.Context, limit int) ([]board.Order, error)
	// Summary returns the quick-menu-relevant view of one order.
	Summary(ctx context.Context, id uuid.UUID) (*OrderSummary, error)
}

// OrderSummary is the slice of order state the quick menu depends on.
type OrderSummary struct {
	ID        uuid.UUID
	Scheduled bool
}

// TechnicianSource supplies the active roster the board buckets onto.
type TechnicianSource interface {
	ActiveRoster(ctx context.Context) ([]board.Technician, error)
}

// Assigner executes the mutations a drop resolves to.
type Assigner interface {
	Assign(ctx context.Context, orderID, technicianID uuid.UUID, dateKey string) error
	ScheduleUnassigned(ctx context.Context, orderID uuid.UUID, dateKey string) error
	Unschedule(ctx context.Context, orderID uuid.UUID) error
}

// Service computes board views and resolves drop interactions.
type Service struct {
	orders       WorkOrderSource
	techs        TechnicianSource
	assigner     Assigner
	store        *cache.Store
	cacheTTL     time.Duration
	log          *logger.Logger
	workDayStart int
	workDayEnd   int
	backlogLimit int
}

// Config carries the schedule tuning knobs.
type Config struct {
	CacheTTL     time.Duration
	WorkDayStart int
	WorkDayEnd   int
	BacklogLimit int
}

// New creates a new schedule service.
func New(orders WorkOrderSource, techs TechnicianSource, assigner Assigner, store *cache.Store, cfg Config, log *logger.Logger) *Service {
	return &Service{
		orders:       orders,
		techs:        techs,
		assigner:     assigner,
		store:        store,
		cacheTTL:     cfg.CacheTTL,
		log:          log,
		workDayStart: cfg.WorkDayStart,
		workDayEnd:   cfg.WorkDayEnd,
		backlogLimit: cfg.BacklogLimit,
	}
}

// GetBoard returns the weekly board for the week containing req.Date,
// defaulting to the current week. Results are cached per week start and
// filter combination.
func (s *Service) GetBoard(ctx context.Context, req transport.BoardRequest) (*transport.BoardResponse, error) {
	anchor := time.Now()
	if req.Date != "" {
		parsed, err := week.ParseDateKey(req.Date)
		if err != nil {
			return nil, apperr.Validation("invalid date")
		}
		anchor = parsed
	}
	weekStart := week.Start(anchor)

	filter, err := boardFilter(req)
	if err != nil {
		return nil, err
	}

	key := cache.GroupScheduleBoard.Key(boardCacheSuffix(week.DateKey(weekStart), req))
	var cached transport.BoardResponse
	if s.store.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	days := week.Days(weekStart)
	from, _ := week.ParseDateKey(days[0].Key)
	to, _ := week.ParseDateKey(days[week.DaysPerWeek-1].Key)

	// Roster, window orders, and backlog are independent reads; fetch them
	// concurrently.
	var (
		roster  []board.Technician
		orders  []board.Order
		backlog []board.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roster, err = s.techs.ActiveRoster(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.orders.ScheduledInWindow(gctx, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		backlog, err = s.orders.Backlog(gctx, s.backlogLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := board.Build(weekStart, roster, orders, filter)
	if n := b.UnmatchedCount(); n > 0 {
		s.log.Warn("board has unresolvable technician assignments",
			"weekStart", b.WeekStart, "count", n, "workOrderIds", b.Unmatched)
	}

	resp := s.toBoardResponse(b, weekStart, backlog)
	s.store.SetJSON(ctx, key, resp, s.cacheTTL)
	return resp, nil
}

// Drop resolves a drag-and-drop onto a board target and executes the
// corresponding mutation.
func (s *Service) Drop(ctx context.Context, req transport.DropRequest) error {
	target, err := droptarget.Parse(req.TargetID)
	if err != nil {
		return apperr.Validation(err.Error())
	}

	switch target.Kind {
	case droptarget.KindTechnicianDay:
		return s.assigner.Assign(ctx, req.WorkOrderID, target.TechnicianID, target.DateKey)
	case droptarget.KindUnassignedDay:
		return s.assigner.ScheduleUnassigned(ctx, req.WorkOrderID, target.DateKey)
	case droptarget.KindBacklog:
		return s.assigner.Unschedule(ctx, req.WorkOrderID)
	default:
		return apperr.Validation("unsupported drop target")
	}
}

// QuickMenu returns the quick actions affordances for one work order.
func (s *Service) QuickMenu(ctx context.Context, orderID uuid.UUID, req transport.QuickMenuRequest) (*transport.QuickMenuResponse, error) {
	summary, err := s.orders.Summary(ctx, orderID)
	if err != nil {
		return nil, err
	}

	roster, err := s.techs.ActiveRoster(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]transport.OptionResponse, 0, len(wotransport.AllStatuses))
	for _, st := range wotransport.AllStatuses {
		statuses = append(statuses, transport.OptionResponse{
			Value: string(st),
			Label: st.Label(),
			Theme: st.DisplayTheme(),
		})
	}

	priorities := make([]transport.OptionResponse, 0, len(wotransport.AllPriorities))
	for _, p := range wotransport.AllPriorities {
		priorities = append(priorities, transport.OptionResponse{
			Value: string(p),
			Label: p.Label(),
			Theme: p.DisplayTheme(),
		})
	}

	techs := make([]transport.TechnicianOptionResponse, 0, len(roster))
	for _, tech := range roster {
		techs = append(techs, transport.TechnicianOptionResponse{ID: tech.ID, Name: tech.Name})
	}

	resp := &transport.QuickMenuResponse{
		WorkOrderID: summary.ID,
		Statuses:    statuses,
		Priorities:  priorities,
		Technicians: techs,
		TimeSlots:   quickmenu.TimeSlots(s.workDayStart, s.workDayEnd),
		CanDelete:   !summary.Scheduled,
	}

	if req.ViewportWidth > 0 && req.ViewportHeight > 0 {
		pos := quickmenu.Position(
			quickmenu.Point{X: req.X, Y: req.Y},
			quickmenu.MenuSize(),
			quickmenu.Size{Width: req.ViewportWidth, Height: req.ViewportHeight},
		)
		resp.Position = &transport.PointResponse{X: pos.X, Y: pos.Y}
	}

	return resp, nil
}

// boardFilter normalizes the request's filter parameters.
func boardFilter(req transport.BoardRequest) (board.Filter, error) {
	filter := board.Filter{TechnicianName: req.Technician}

	if req.Statuses != "" {
		for _, s := range strings.Split(req.Statuses, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			if !wotransport.WorkOrderStatus(s).IsValid() {
				return board.Filter{}, apperr.Validation("unknown status: " + s)
			}
			filter.Statuses = append(filter.Statuses, s)
		}
	}

	if req.TechnicianID != "" {
		id, err := uuid.Parse(req.TechnicianID)
		if err != nil {
			return board.Filter{}, apperr.Validation("invalid technicianId")
		}
		filter.TechnicianID = &id
	}

	return filter, nil
}

func boardCacheSuffix(weekKey string, req transport.BoardRequest) string {
	return weekKey + "|" + req.Statuses + "|" + req.TechnicianID + "|" + req.Technician
}

func (s *Service) toBoardResponse(b *board.Board, weekStart time.Time, backlog []board.Order) *transport.BoardResponse {
	resp := &transport.BoardResponse{
		WeekStart:      b.WeekStart,
		PrevWeekStart:  week.DateKey(week.Shift(weekStart, -1)),
		NextWeekStart:  week.DateKey(week.Shift(weekStart, 1)),
		DayKeys:        b.DayKeys[:],
		Rows:           make([]transport.RowResponse, 0, len(b.Rows)),
		Unassigned:     make([]transport.DayCellResponse, 0, week.DaysPerWeek),
		Backlog:        make([]transport.BacklogItemResponse, 0, len(backlog)),
		BacklogTarget:  droptarget.FormatBacklog(),
		UnmatchedCount: b.UnmatchedCount(),
	}

	for i := range b.Rows {
		row := &b.Rows[i]
		rowResp := transport.RowResponse{
			TechnicianID:   row.Technician.ID,
			TechnicianName: row.Technician.Name,
			WeekHours:      row.WeekHours,
			Tier:           string(row.Tier),
			CompletedCount: row.CompletedCount,
			PendingCount:   row.PendingCount,
			Days:           make([]transport.DayCellResponse, 0, week.DaysPerWeek),
		}
		for _, cell := range row.Days {
			rowResp.Days = append(rowResp.Days,
				toCellResponse(cell, droptarget.Format(row.Technician.ID, cell.Key)))
		}
		resp.Rows = append(resp.Rows, rowResp)
	}

	for _, cell := range b.Unassigned {
		resp.Unassigned = append(resp.Unassigned,
			toCellResponse(cell, droptarget.FormatUnassigned(cell.Key)))
	}

	for _, item := range backlog {
		resp.Backlog = append(resp.Backlog, transport.BacklogItemResponse{
			ID:            item.ID,
			JobType:       item.JobType,
			Priority:      item.Priority,
			PriorityTheme: wotransport.WorkOrderPriority(item.Priority).DisplayTheme(),
			City:          item.City,
			Hours:         item.Hours(),
		})
	}

	return resp
}

func toCellResponse(cell board.DayCell, targetID string) transport.DayCellResponse {
	cards := make([]transport.CardResponse, 0, len(cell.Cards))
	for _, card := range cell.Cards {
		cards = append(cards, transport.CardResponse{
			ID:              card.ID,
			JobType:         card.JobType,
			Status:          card.Status,
			StatusTheme:     wotransport.WorkOrderStatus(card.Status).DisplayTheme(),
			Priority:        card.Priority,
			PriorityTheme:   wotransport.WorkOrderPriority(card.Priority).DisplayTheme(),
			TimeWindowStart: card.TimeWindowStart,
			Hours:           card.Hours,
			City:            card.City,
		})
	}
	return transport.DayCellResponse{
		Key:        cell.Key,
		DropTarget: targetID,
		Cards:      cards,
		TotalHours: cell.TotalHours,
		Tier:       string(cell.Tier),
	}
}
