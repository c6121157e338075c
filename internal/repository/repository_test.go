package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/taskdeck/internal/database"
	"github.com/mtlprog/taskdeck/internal/domain"
	"github.com/mtlprog/taskdeck/internal/repository"
	"github.com/mtlprog/taskdeck/internal/service"
	"github.com/stretchr/testify/suite"
)

// RepositoryTestSuite runs against a real Postgres. Set DATABASE_URL to
// enable it; without one the suite skips.
type RepositoryTestSuite struct {
	suite.Suite
	pool     *pgxpool.Pool
	taskRepo *repository.TaskRepository
	userRepo *repository.UserRepository

	// Test fixtures
	creatorID  string
	assigneeID string
}

// SetupSuite runs once before all tests.
func (s *RepositoryTestSuite) SetupSuite() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		s.T().Skip("DATABASE_URL not set, skipping database tests")
	}

	ctx := context.Background()

	db, err := database.New(ctx, databaseURL)
	s.Require().NoError(err, "failed to connect to database")
	s.pool = db.Pool()

	err = database.RunMigrations(ctx, s.pool)
	s.Require().NoError(err, "failed to run migrations")

	s.taskRepo = repository.NewTaskRepository(s.pool)
	s.userRepo = repository.NewUserRepository(s.pool)
}

// SetupTest runs before each test.
func (s *RepositoryTestSuite) SetupTest() {
	ctx := context.Background()

	_, err := s.pool.Exec(ctx, "TRUNCATE users, tasks CASCADE")
	s.Require().NoError(err, "failed to truncate tables")

	s.creatorID = uuid.NewString()
	s.assigneeID = uuid.NewString()

	_, err = s.userRepo.Create(ctx, domain.User{
		ID:    s.creatorID,
		Name:  "creator",
		Email: "creator@example.com",
		Role:  domain.RoleDeveloper,
	})
	s.Require().NoError(err)

	_, err = s.userRepo.Create(ctx, domain.User{
		ID:    s.assigneeID,
		Name:  "assignee",
		Email: "assignee@example.com",
		Role:  domain.RoleDeveloper,
	})
	s.Require().NoError(err)
}

// TearDownSuite runs once after all tests.
func (s *RepositoryTestSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// createTask persists a fresh task for the test.
func (s *RepositoryTestSuite) createTask(mutate func(*domain.CreateTaskProps)) *domain.Task {
	props := domain.CreateTaskProps{
		Title:     "Fix login bug",
		ProjectID: "P1",
		CreatedBy: s.creatorID,
		Tags:      []string{"auth"},
	}
	if mutate != nil {
		mutate(&props)
	}

	task, err := domain.NewTask(props)
	s.Require().NoError(err)

	created, err := s.taskRepo.Create(context.Background(), task)
	s.Require().NoError(err)
	return created
}

func (s *RepositoryTestSuite) TestTaskCreateAndGet() {
	ctx := context.Background()
	created := s.createTask(nil)

	loaded, err := s.taskRepo.GetByID(ctx, created.ID)
	s.Require().NoError(err)

	s.Equal(created.ID, loaded.ID)
	s.Equal("Fix login bug", loaded.Title)
	s.Equal(domain.TaskStatusTodo, loaded.Status)
	s.Equal(domain.TaskPriorityMedium, loaded.Priority)
	s.Equal([]string{"auth"}, loaded.Tags)
	s.Equal(1.0, loaded.EstimatedHours)

	// Timestamps are database-assigned, so create and read agree.
	s.True(created.CreatedAt.Equal(loaded.CreatedAt))
	s.True(created.UpdatedAt.Equal(loaded.UpdatedAt))
}

func (s *RepositoryTestSuite) TestTaskGetByID_NotFound() {
	_, err := s.taskRepo.GetByID(context.Background(), uuid.NewString())
	s.ErrorIs(err, domain.ErrTaskNotFound)
}

func (s *RepositoryTestSuite) TestTaskUpdate() {
	ctx := context.Background()
	created := s.createTask(nil)

	title := "Fix login timeout"
	status := domain.TaskStatusInProgress
	updated, err := s.taskRepo.Update(ctx, created.ID,
		domain.TaskPatch{Title: &title, Status: &status}, created.UpdatedAt)
	s.Require().NoError(err)

	s.Equal("Fix login timeout", updated.Title)
	s.Equal(domain.TaskStatusInProgress, updated.Status)
	s.True(updated.UpdatedAt.After(created.UpdatedAt))

	// Untouched fields survive.
	s.Equal(created.Tags, updated.Tags)
	s.Equal(created.CreatedBy, updated.CreatedBy)
}

func (s *RepositoryTestSuite) TestTaskUpdate_StaleTimestampConflicts() {
	ctx := context.Background()
	created := s.createTask(nil)

	title := "first writer"
	_, err := s.taskRepo.Update(ctx, created.ID,
		domain.TaskPatch{Title: &title}, created.UpdatedAt)
	s.Require().NoError(err)

	// Second writer still holds the original read.
	title = "second writer"
	_, err = s.taskRepo.Update(ctx, created.ID,
		domain.TaskPatch{Title: &title}, created.UpdatedAt)
	s.ErrorIs(err, domain.ErrTaskModified)

	loaded, err := s.taskRepo.GetByID(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("first writer", loaded.Title)
}

func (s *RepositoryTestSuite) TestTaskUpdate_MissingTask() {
	title := "x"
	_, err := s.taskRepo.Update(context.Background(), uuid.NewString(),
		domain.TaskPatch{Title: &title}, time.Now())
	s.ErrorIs(err, domain.ErrTaskNotFound)
}

func (s *RepositoryTestSuite) TestTaskDelete() {
	ctx := context.Background()
	created := s.createTask(nil)

	deleted, err := s.taskRepo.Delete(ctx, created.ID)
	s.Require().NoError(err)
	s.True(deleted)

	deleted, err = s.taskRepo.Delete(ctx, created.ID)
	s.Require().NoError(err)
	s.False(deleted)

	_, err = s.taskRepo.GetByID(ctx, created.ID)
	s.ErrorIs(err, domain.ErrTaskNotFound)
}

func (s *RepositoryTestSuite) TestTaskList_FiltersAndPagination() {
	ctx := context.Background()

	s.createTask(nil)
	s.createTask(func(p *domain.CreateTaskProps) {
		p.Title = "Ship dashboard"
		p.ProjectID = "P2"
		p.Priority = domain.TaskPriorityHigh
		p.AssigneeID = &s.assigneeID
	})
	s.createTask(func(p *domain.CreateTaskProps) {
		p.Title = "Write release notes"
		p.Priority = domain.TaskPriorityHigh
	})

	projectID := "P1"
	tasks, total, err := s.taskRepo.List(ctx, service.TaskFilter{ProjectID: &projectID})
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Len(tasks, 2)

	priority := domain.TaskPriorityHigh
	tasks, total, err = s.taskRepo.List(ctx, service.TaskFilter{Priority: &priority, Limit: 1})
	s.Require().NoError(err)
	s.Equal(2, total, "total counts past the page")
	s.Len(tasks, 1)

	byAssignee, err := s.taskRepo.ListByAssignee(ctx, s.assigneeID)
	s.Require().NoError(err)
	s.Require().Len(byAssignee, 1)
	s.Equal("Ship dashboard", byAssignee[0].Title)

	byCreator, err := s.taskRepo.ListByCreator(ctx, s.creatorID)
	s.Require().NoError(err)
	s.Len(byCreator, 3)

	byStatus, err := s.taskRepo.ListByStatus(ctx, domain.TaskStatusTodo)
	s.Require().NoError(err)
	s.Len(byStatus, 3)
}

func (s *RepositoryTestSuite) TestTaskList_OrderedByCreation() {
	ctx := context.Background()

	first := s.createTask(nil)
	second := s.createTask(func(p *domain.CreateTaskProps) { p.Title = "Second task" })

	tasks, _, err := s.taskRepo.List(ctx, service.TaskFilter{})
	s.Require().NoError(err)
	s.Require().Len(tasks, 2)
	s.Equal(first.ID, tasks[0].ID)
	s.Equal(second.ID, tasks[1].ID)
}

func (s *RepositoryTestSuite) TestUserCreateAndGet() {
	ctx := context.Background()

	id := uuid.NewString()
	created, err := s.userRepo.Create(ctx, domain.User{
		ID:    id,
		Name:  "new user",
		Email: "new@example.com",
		Role:  domain.RoleManager,
	})
	s.Require().NoError(err)
	s.False(created.CreatedAt.IsZero())

	byID, err := s.userRepo.GetByID(ctx, id)
	s.Require().NoError(err)
	s.Equal("new user", byID.Name)
	s.Equal(domain.RoleManager, byID.Role)

	byEmail, err := s.userRepo.GetByEmail(ctx, "new@example.com")
	s.Require().NoError(err)
	s.Equal(id, byEmail.ID)
}

func (s *RepositoryTestSuite) TestUserCreate_DuplicateEmail() {
	_, err := s.userRepo.Create(context.Background(), domain.User{
		ID:    uuid.NewString(),
		Name:  "impostor",
		Email: "creator@example.com",
		Role:  domain.RoleDeveloper,
	})
	s.ErrorIs(err, domain.ErrEmailTaken)
}

func (s *RepositoryTestSuite) TestUserGetByID_NotFound() {
	_, err := s.userRepo.GetByID(context.Background(), uuid.NewString())
	s.ErrorIs(err, domain.ErrUserNotFound)
}

// TestRepositoryTestSuite runs the test suite.
func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
