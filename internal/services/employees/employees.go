package employees

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/tamathecxder/randomail"

	"github.com/UnknownOlympus/hestia/internal/auth"
	"github.com/UnknownOlympus/hestia/internal/client"
	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/repository"
)

const syncKind = "employee"

var e164 = regexp.MustCompile(`^\+?[0-9]\d{1,14}$`)

// Fetcher reads the employee directory from the backend.
type Fetcher interface {
	FetchEmployees(ctx context.Context) ([]models.Employee, error)
}

// SessionKeeper provides a usable backend session.
type SessionKeeper interface {
	Ensure(ctx context.Context) (auth.Session, error)
	Invalidate()
}

type Staff struct {
	log        *slog.Logger
	repo       repository.EmployeeRepoIface
	statusRepo repository.SyncStatusRepoIface
	crm        Fetcher
	sessions   SessionKeeper
	metrics    *metrics.Metrics
}

func NewStaff(
	log *slog.Logger,
	repo repository.EmployeeRepoIface,
	statusRepo repository.SyncStatusRepoIface,
	crm Fetcher,
	sessions SessionKeeper,
	metrics *metrics.Metrics,
) *Staff {
	return &Staff{log: log, repo: repo, statusRepo: statusRepo, crm: crm, sessions: sessions, metrics: metrics}
}

func (s *Staff) initLogger(opn string) *slog.Logger {
	return s.log.With(
		sl.Op(opn),
		slog.String("division", "employee"),
	)
}

// Start syncs the employee directory once and then on every tick until ctx is done.
func (s *Staff) Start(ctx context.Context, interval time.Duration) error {
	const opn = "Employee.Start"
	log := s.initLogger(opn)

	log.InfoContext(ctx, "Starting catch-up mode")
	if err := s.ProcessEmployee(ctx); err != nil {
		log.ErrorContext(ctx, "Catch-up run failed", sl.Err(err))
	}

	log.InfoContext(ctx, "Starting maintenance mode", "interval", interval.String())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			log.DebugContext(ctx, "Periodic check triggered.")
			if err := s.ProcessEmployee(ctx); err != nil {
				log.ErrorContext(ctx, "Periodic run failed", sl.Err(err))
			}
		case <-ctx.Done():
			log.InfoContext(ctx, "Service shutting down.")
			return nil
		}
	}
}

// ProcessEmployee fetches the directory, repairs missing or invalid emails and stores
// every employee that is new or changed.
func (s *Staff) ProcessEmployee(ctx context.Context) error {
	const opn = "Employee.ProcessEmployee"
	log := s.initLogger(opn)
	startTime := time.Now()

	if err := s.process(ctx, log); err != nil {
		s.metrics.Runs.WithLabelValues("failure").Inc()
		return err
	}

	s.metrics.Runs.WithLabelValues("success").Inc()
	s.metrics.LastSuccessfulRun.WithLabelValues(syncKind).SetToCurrentTime()
	s.metrics.RunDuration.WithLabelValues(syncKind).Observe(time.Since(startTime).Seconds())
	return nil
}

func (s *Staff) process(ctx context.Context, log *slog.Logger) error {
	const contextTimeout = 30 * time.Second
	ctx, cancel := context.WithTimeout(ctx, contextTimeout)
	defer cancel()

	if _, err := s.sessions.Ensure(ctx); err != nil {
		return fmt.Errorf("failed to obtain backend session: %w", err)
	}

	employees, err := s.crm.FetchEmployees(ctx)
	if err != nil {
		if client.IsUnauthorized(err) {
			s.sessions.Invalidate()
		}
		return fmt.Errorf("failed to fetch employees: %w", err)
	}

	fixedEmployees := fixInvalidEmail(ctx, log, s.metrics, employees)

	var changed int
	for _, employee := range fixedEmployees {
		existed, existedEmployee := IsEmployeeExists(ctx, employee.ID, s.repo)
		if existed {
			if existedEmployee == employee {
				log.DebugContext(ctx, "employee is existed, skipped", "fullname", employee.FullName)
				continue
			}
			if updateErr := s.repo.UpdateEmployee(ctx, employee); updateErr != nil {
				return fmt.Errorf("failed to update employee: '%s': %w", employee.FullName, updateErr)
			}
		} else {
			if saveErr := s.repo.SaveEmployee(ctx, employee); saveErr != nil {
				return fmt.Errorf("failed to save new employee %s: %w", employee.FullName, saveErr)
			}
		}
		changed++
	}
	s.metrics.ItemsSynced.WithLabelValues(syncKind).Add(float64(changed))

	if err = s.statusRepo.SaveLastSync(ctx, syncKind, time.Now()); err != nil {
		return fmt.Errorf("failed to save last sync: %w", err)
	}

	log.InfoContext(ctx, "Employee directory synced", "total", len(fixedEmployees), "changed", changed)
	return nil
}

func fixInvalidEmail(
	ctx context.Context,
	log *slog.Logger,
	metrics *metrics.Metrics,
	employees []models.Employee,
) []models.Employee {
	var invalidCounter int
	fixedEmployees := make([]models.Employee, 0, len(employees))

	for _, employee := range employees {
		if employee.Email == "" {
			log.DebugContext(ctx, "Email was not specified, generate random email", "employee", employee.FullName)
			employee.Email = randomail.GenerateRandomEmail()
			invalidCounter++
		} else if isEmail, _ := ValidateEmployee(employee.Email, employee.Phone); !isEmail {
			log.InfoContext(ctx, "Employee has invalid email, it will be replaced with temporary random email.",
				"fullname", employee.FullName, "email", employee.Email,
			)
			employee.Email = randomail.GenerateRandomEmail()
			invalidCounter++
		}

		fixedEmployees = append(fixedEmployees, employee)
	}

	if invalidCounter != 0 {
		metrics.EmailsFixed.Add(float64(invalidCounter))
		log.WarnContext(
			ctx, "Number of employees with no or invalid email addresses. For more information, enable debug mode",
			"value", invalidCounter)
	}

	return fixedEmployees
}

// ValidateEmployee validates the email and phone number of an employee.
func ValidateEmployee(email, phone string) (bool, bool) {
	return isValidEmail(email), isValidPhoneNumber(phone)
}

// IsEmployeeExists checks if an employee with the given ID exists in the repository.
// Lookup failures other than a missing row are treated as absence.
func IsEmployeeExists(ctx context.Context, employeeID int, repo repository.EmployeeRepoIface) (bool, models.Employee) {
	employee, err := repo.GetEmployeeByID(ctx, employeeID)
	if err != nil {
		return false, models.Employee{}
	}

	return true, employee
}

// isValidEmail checks if the given email address is valid.
func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// isValidPhoneNumber checks if a phone number is valid according to the E.164 format.
func isValidPhoneNumber(phone string) bool {
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")

	return e164.MatchString(phone)
}
