package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/yukikurage/taskflow/internal/models"
	"github.com/yukikurage/taskflow/internal/repository"
	"github.com/yukikurage/taskflow/internal/testutil"
)

type TaskServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	db       *gorm.DB
	service  *TaskService
	owner    *models.User
	outsider *models.User
	org      *models.Organization
	project  *models.Project
	scope    TaskScope
}

func (suite *TaskServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.db = testutil.NewDB(suite.T())
	suite.service = NewTaskService(
		repository.NewTaskRepository(suite.db),
		repository.NewProjectRepository(suite.db),
		repository.NewOrganizationRepository(suite.db),
	)
	suite.owner = testutil.CreateUser(suite.T(), suite.db, "owner@x.com", "Owner")
	suite.outsider = testutil.CreateUser(suite.T(), suite.db, "outsider@x.com", "Outsider")
	suite.org = testutil.CreateOrganization(suite.T(), suite.db, "acme", suite.owner)
	suite.project = testutil.CreateProject(suite.T(), suite.db, suite.org, suite.owner, "Website")
	suite.scope = TaskScope{OrganizationID: suite.org.ID, ProjectID: suite.project.ID}
}

func (suite *TaskServiceTestSuite) TestCreateTask_Defaults() {
	task, err := suite.service.CreateTask(suite.ctx, CreateTaskInput{
		TaskScope: suite.scope,
		CreatorID: suite.owner.ID,
		Title:     "Fix bug",
	})
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusTodo, task.Status)
	suite.Equal(models.TaskPriorityMedium, task.Priority)
	suite.Nil(task.AssigneeID)
	suite.Equal("Owner", task.Creator.Name)
}

func (suite *TaskServiceTestSuite) TestCreateTask_AssigneeMustBeMember() {
	_, err := suite.service.CreateTask(suite.ctx, CreateTaskInput{
		TaskScope:  suite.scope,
		CreatorID:  suite.owner.ID,
		Title:      "Fix bug",
		AssigneeID: &suite.outsider.ID,
	})
	suite.ErrorIs(err, ErrInvalidAssignee)

	task, err := suite.service.CreateTask(suite.ctx, CreateTaskInput{
		TaskScope:  suite.scope,
		CreatorID:  suite.owner.ID,
		Title:      "Fix bug",
		AssigneeID: &suite.owner.ID,
	})
	suite.Require().NoError(err)
	suite.Require().NotNil(task.Assignee)
	suite.Equal(suite.owner.Email, task.Assignee.Email)
}

func (suite *TaskServiceTestSuite) TestCreateTask_ForeignProject() {
	otherOrg := testutil.CreateOrganization(suite.T(), suite.db, "other", suite.outsider)
	foreign := testutil.CreateProject(suite.T(), suite.db, otherOrg, suite.outsider, "Foreign")

	_, err := suite.service.CreateTask(suite.ctx, CreateTaskInput{
		TaskScope: TaskScope{OrganizationID: suite.org.ID, ProjectID: foreign.ID},
		CreatorID: suite.owner.ID,
		Title:     "Sneaky",
	})
	suite.ErrorIs(err, ErrProjectNotFound)

	_, err = suite.service.ListTasks(suite.ctx, TaskScope{OrganizationID: suite.org.ID, ProjectID: foreign.ID}, repository.TaskFilter{})
	suite.ErrorIs(err, ErrProjectNotFound)
}

func (suite *TaskServiceTestSuite) TestCrossTenantTaskIsNotFound() {
	otherOrg := testutil.CreateOrganization(suite.T(), suite.db, "other", suite.outsider)
	foreign := testutil.CreateProject(suite.T(), suite.db, otherOrg, suite.outsider, "Foreign")
	task := testutil.CreateTask(suite.T(), suite.db, foreign, suite.outsider, "Hidden", models.TaskPriorityLow, time.Now())
	title := "Hijacked"

	// Right task, caller's organization, the task's real project.
	scope := TaskScope{OrganizationID: suite.org.ID, ProjectID: foreign.ID}
	_, err := suite.service.GetTask(suite.ctx, scope, task.ID)
	suite.ErrorIs(err, ErrTaskNotFound)

	// Right task, caller's own project.
	_, err = suite.service.UpdateTask(suite.ctx, UpdateTaskInput{TaskScope: suite.scope, TaskID: task.ID, Title: &title})
	suite.ErrorIs(err, ErrTaskNotFound)

	suite.ErrorIs(suite.service.DeleteTask(suite.ctx, suite.scope, task.ID), ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestUpdateTask() {
	task := testutil.CreateTask(suite.T(), suite.db, suite.project, suite.owner, "Fix bug", models.TaskPriorityLow, time.Now())
	status := models.TaskStatusInProgress
	due := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	updated, err := suite.service.UpdateTask(suite.ctx, UpdateTaskInput{
		TaskScope:  suite.scope,
		TaskID:     task.ID,
		Status:     &status,
		AssigneeID: &suite.owner.ID,
		DueDate:    &due,
	})
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusInProgress, updated.Status)
	suite.Require().NotNil(updated.AssigneeID)
	suite.Require().NotNil(updated.DueDate)
	suite.True(due.Equal(*updated.DueDate))

	cleared, err := suite.service.UpdateTask(suite.ctx, UpdateTaskInput{
		TaskScope:     suite.scope,
		TaskID:        task.ID,
		ClearAssignee: true,
		ClearDueDate:  true,
	})
	suite.Require().NoError(err)
	suite.Nil(cleared.AssigneeID)
	suite.Nil(cleared.DueDate)
	suite.Equal(models.TaskStatusInProgress, cleared.Status)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_Reassign() {
	member := testutil.CreateUser(suite.T(), suite.db, "member@x.com", "Member")
	testutil.AddMember(suite.T(), suite.db, suite.org, member, models.RoleMember)
	task := testutil.CreateTask(suite.T(), suite.db, suite.project, suite.owner, "Fix bug", models.TaskPriorityLow, time.Now())

	_, err := suite.service.UpdateTask(suite.ctx, UpdateTaskInput{TaskScope: suite.scope, TaskID: task.ID, AssigneeID: &suite.owner.ID})
	suite.Require().NoError(err)

	reassigned, err := suite.service.UpdateTask(suite.ctx, UpdateTaskInput{TaskScope: suite.scope, TaskID: task.ID, AssigneeID: &member.ID})
	suite.Require().NoError(err)
	suite.Require().NotNil(reassigned.AssigneeID)
	suite.Equal(member.ID, *reassigned.AssigneeID)
	suite.Require().NotNil(reassigned.Assignee)
	suite.Equal("Member", reassigned.Assignee.Name)

	stored, err := suite.service.GetTask(suite.ctx, suite.scope, task.ID)
	suite.Require().NoError(err)
	suite.Equal(member.ID, *stored.AssigneeID)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_AssigneeMustBeMember() {
	task := testutil.CreateTask(suite.T(), suite.db, suite.project, suite.owner, "Fix bug", models.TaskPriorityLow, time.Now())

	_, err := suite.service.UpdateTask(suite.ctx, UpdateTaskInput{
		TaskScope:  suite.scope,
		TaskID:     task.ID,
		AssigneeID: &suite.outsider.ID,
	})
	suite.ErrorIs(err, ErrInvalidAssignee)
}

func (suite *TaskServiceTestSuite) TestListTasks_Filters() {
	testutil.CreateTask(suite.T(), suite.db, suite.project, suite.owner, "low", models.TaskPriorityLow, time.Now())
	urgent := testutil.CreateTask(suite.T(), suite.db, suite.project, suite.owner, "urgent", models.TaskPriorityUrgent, time.Now())
	suite.Require().NoError(suite.db.Model(urgent).Update("assignee_id", suite.owner.ID).Error)

	tasks, err := suite.service.ListTasks(suite.ctx, suite.scope, repository.TaskFilter{})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 2)
	suite.Equal("urgent", tasks[0].Title)

	assigned, err := suite.service.ListTasks(suite.ctx, suite.scope, repository.TaskFilter{AssigneeID: &suite.owner.ID})
	suite.Require().NoError(err)
	suite.Require().Len(assigned, 1)
	suite.Equal("urgent", assigned[0].Title)
}

func (suite *TaskServiceTestSuite) TestDeleteTask() {
	task := testutil.CreateTask(suite.T(), suite.db, suite.project, suite.owner, "Fix bug", models.TaskPriorityLow, time.Now())

	suite.Require().NoError(suite.service.DeleteTask(suite.ctx, suite.scope, task.ID))

	_, err := suite.service.GetTask(suite.ctx, suite.scope, task.ID)
	suite.ErrorIs(err, ErrTaskNotFound)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
