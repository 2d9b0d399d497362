package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/pjbl-tracker-api/internal/middleware"
	"github.com/noah-isme/pjbl-tracker-api/internal/models"
	"github.com/noah-isme/pjbl-tracker-api/internal/service"
	"github.com/noah-isme/pjbl-tracker-api/pkg/response"
)

type scoringStoreStub struct {
	submissions map[string]*models.Submission
}

func (s *scoringStoreStub) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	submission, ok := s.submissions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *submission
	return &copied, nil
}

func (s *scoringStoreStub) UpdateScore(ctx context.Context, id string, score float64, breakdown models.DimensionBreakdown, feedback string) error {
	return nil
}

func (s *scoringStoreStub) ListForRecompute(ctx context.Context, projectID string, force bool) ([]models.Submission, error) {
	var result []models.Submission
	for _, submission := range s.submissions {
		if projectID == "" || submission.ProjectID == projectID {
			result = append(result, *submission)
		}
	}
	return result, nil
}

func (s *scoringStoreStub) ListByStudentAndProject(ctx context.Context, studentID, projectID string) ([]models.Submission, error) {
	var result []models.Submission
	for _, submission := range s.submissions {
		if submission.StudentID == studentID && submission.ProjectID == projectID {
			result = append(result, *submission)
		}
	}
	return result, nil
}

func (s *scoringStoreStub) SubmissionTimes(ctx context.Context, studentID string) ([]time.Time, error) {
	var times []time.Time
	for _, submission := range s.submissions {
		if submission.StudentID == studentID {
			times = append(times, submission.SubmittedAt)
		}
	}
	return times, nil
}

type catalogStub struct {
	instruments map[string]*models.Instrument
	questions   map[string][]models.Question
}

func (s *catalogStub) FindInstrument(ctx context.Context, id string) (*models.Instrument, error) {
	instrument, ok := s.instruments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return instrument, nil
}

func (s *catalogStub) ListByInstrument(ctx context.Context, instrumentID string) ([]models.Question, error) {
	return s.questions[instrumentID], nil
}

type rosterStub struct {
	students map[string]*models.Student
	classes  map[string]*models.Class
}

func (s *rosterStub) FindByID(ctx context.Context, id string) (*models.Student, error) {
	student, ok := s.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return student, nil
}

func (s *rosterStub) ListByClass(ctx context.Context, classID string) ([]models.Student, error) {
	var result []models.Student
	for _, student := range s.students {
		if student.ClassID == classID {
			result = append(result, *student)
		}
	}
	return result, nil
}

func (s *rosterStub) FindClass(ctx context.Context, id string) (*models.Class, error) {
	class, ok := s.classes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return class, nil
}

func dimPtr(s string) *string { return &s }

func buildScoringRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	answer := func(v float64) *float64 { return &v }
	content, err := json.Marshal(models.AssessmentContent{Answers: []*float64{answer(4), answer(3), answer(2)}})
	require.NoError(t, err)

	store := &scoringStoreStub{submissions: map[string]*models.Submission{
		"sub-1": {
			ID:           "sub-1",
			InstrumentID: "inst-1",
			ProjectID:    "proj-1",
			StudentID:    "stu-1",
			Kind:         models.KindAssessment,
			Content:      content,
			SubmittedAt:  time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		},
	}}
	catalog := &catalogStub{
		instruments: map[string]*models.Instrument{"inst-1": {ID: "inst-1", ProjectID: "proj-1", Title: "Penilaian Diri"}},
		questions: map[string][]models.Question{"inst-1": {
			{ID: "q-1", InstrumentID: "inst-1", DimensionID: dimPtr("kolaborasi"), DimensionName: dimPtr("Kolaborasi")},
			{ID: "q-2", InstrumentID: "inst-1", DimensionID: dimPtr("kolaborasi"), DimensionName: dimPtr("Kolaborasi")},
			{ID: "q-3", InstrumentID: "inst-1", DimensionID: dimPtr("kreativitas"), DimensionName: dimPtr("Kreativitas")},
		}},
	}
	roster := &rosterStub{
		students: map[string]*models.Student{"stu-1": {ID: "stu-1", FullName: "Ani", ClassID: "cls-1"}},
		classes:  map[string]*models.Class{"cls-1": {ID: "cls-1", Name: "XI IPA 1"}},
	}

	cacheSvc := service.NewCacheService(nil, nil, time.Minute, zap.NewNop(), false)
	scoringSvc := service.NewScoringService(store, catalog, cacheSvc, nil, zap.NewNop())
	rollupSvc := service.NewRollupService(store, roster, catalog, cacheSvc, time.Minute, zap.NewNop())
	batchSvc := service.NewBatchService(store, scoringSvc, nil, nil, zap.NewNop())
	streakSvc := service.NewStreakService(store, roster, zap.NewNop())

	h := NewScoringHandler(scoringSvc, rollupSvc, batchSvc, streakSvc, nil, false, zap.NewNop())

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if role := c.GetHeader("X-Test-Role"); role != "" {
			c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "test-user", Role: models.UserRole(role)})
		}
		c.Next()
	})

	scoring := router.Group("/scoring")
	scoring.POST("/submissions/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), h.ScoreSubmission)
	scoring.GET("/students/:id", middleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher), "SELF"), h.StudentRollup)
	scoring.GET("/classes/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), h.ClassRollup)
	scoring.POST("/recompute", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), h.Recompute)
	router.GET("/students/:id/streak", middleware.RBAC(string(models.RoleAdmin), string(models.RoleTeacher), "SELF"), h.StudentStreak)

	return router
}

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, body *bytes.Buffer) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(body.Bytes(), &envelope))
	return envelope
}

func TestScoreSubmissionEndpoint(t *testing.T) {
	router := buildScoringRouter(t)

	req, _ := http.NewRequest(http.MethodPost, "/scoring/submissions/sub-1", nil)
	req.Header.Set("X-Test-Role", string(models.RoleTeacher))
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	envelope := decodeEnvelope(t, resp.Body)
	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, "sub-1", data["id"])
	assert.InDelta(t, 68.75, data["score"].(float64), 1e-9)
	breakdown := data["breakdown"].([]interface{})
	require.Len(t, breakdown, 2)
	first := breakdown[0].(map[string]interface{})
	assert.Equal(t, "kolaborasi", first["dimensionId"])
	assert.InDelta(t, 87.5, first["averageScore"].(float64), 1e-9)
	assert.Equal(t, "SB", first["qualitativeCode"])
}

func TestScoreSubmissionEndpointNotFound(t *testing.T) {
	router := buildScoringRouter(t)

	req, _ := http.NewRequest(http.MethodPost, "/scoring/submissions/ghost", nil)
	req.Header.Set("X-Test-Role", string(models.RoleTeacher))
	resp := performRequest(router, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
	envelope := decodeEnvelope(t, resp.Body)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestScoreSubmissionEndpointForbiddenForStudents(t *testing.T) {
	router := buildScoringRouter(t)

	req, _ := http.NewRequest(http.MethodPost, "/scoring/submissions/sub-1", nil)
	req.Header.Set("X-Test-Role", string(models.RoleStudent))
	resp := performRequest(router, req)

	require.Equal(t, http.StatusForbidden, resp.Code)
}

func TestStudentRollupEndpoint(t *testing.T) {
	router := buildScoringRouter(t)

	req, _ := http.NewRequest(http.MethodGet, "/scoring/students/stu-1?projectId=proj-1", nil)
	req.Header.Set("X-Test-Role", string(models.RoleTeacher))
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	envelope := decodeEnvelope(t, resp.Body)
	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, "stu-1", data["studentId"])
	assert.Equal(t, "Ani", data["studentName"])
	scores := data["dimensionScores"].([]interface{})
	require.Len(t, scores, 2)
}

func TestStudentRollupEndpointMissingProjectID(t *testing.T) {
	router := buildScoringRouter(t)

	req, _ := http.NewRequest(http.MethodGet, "/scoring/students/stu-1", nil)
	req.Header.Set("X-Test-Role", string(models.RoleTeacher))
	resp := performRequest(router, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestClassRollupEndpoint(t *testing.T) {
	router := buildScoringRouter(t)

	req, _ := http.NewRequest(http.MethodGet, "/scoring/classes/cls-1?projectId=proj-1", nil)
	req.Header.Set("X-Test-Role", string(models.RoleAdmin))
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	envelope := decodeEnvelope(t, resp.Body)
	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, "XI IPA 1", data["className"])
	students := data["students"].([]interface{})
	require.Len(t, students, 1)
}

func TestRecomputeEndpointSync(t *testing.T) {
	router := buildScoringRouter(t)

	req, _ := http.NewRequest(http.MethodPost, "/scoring/recompute", bytes.NewBufferString(`{"projectId":"proj-1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-Role", string(models.RoleAdmin))
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	envelope := decodeEnvelope(t, resp.Body)
	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["processed"])
}

func TestRecomputeEndpointUnscopedRunsAll(t *testing.T) {
	router := buildScoringRouter(t)

	req, _ := http.NewRequest(http.MethodPost, "/scoring/recompute", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-Role", string(models.RoleAdmin))
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	envelope := decodeEnvelope(t, resp.Body)
	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["processed"])
}

func TestStudentStreakEndpoint(t *testing.T) {
	router := buildScoringRouter(t)

	req, _ := http.NewRequest(http.MethodGet, "/students/stu-1/streak", nil)
	req.Header.Set("X-Test-Role", string(models.RoleTeacher))
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	envelope := decodeEnvelope(t, resp.Body)
	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, "stu-1", data["studentId"])
	assert.Equal(t, float64(1), data["streak"])
}

func TestStudentStreakEndpointSelfAccess(t *testing.T) {
	router := buildScoringRouter(t)

	// a student may read their own streak but nobody else's
	req, _ := http.NewRequest(http.MethodGet, "/students/test-user/streak", nil)
	req.Header.Set("X-Test-Role", string(models.RoleStudent))
	resp := performRequest(router, req)
	require.Equal(t, http.StatusNotFound, resp.Code)

	req, _ = http.NewRequest(http.MethodGet, "/students/stu-1/streak", nil)
	req.Header.Set("X-Test-Role", string(models.RoleStudent))
	resp = performRequest(router, req)
	require.Equal(t, http.StatusForbidden, resp.Code)
}

func TestEndpointsRequireClaims(t *testing.T) {
	router := buildScoringRouter(t)

	req, _ := http.NewRequest(http.MethodPost, "/scoring/submissions/sub-1", nil)
	resp := performRequest(router, req)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}
