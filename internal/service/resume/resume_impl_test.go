package resume

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/resume-extractor/config"
	"github.com/feichai0017/resume-extractor/internal/agent"
	"github.com/feichai0017/resume-extractor/internal/agent/llm"
	"github.com/feichai0017/resume-extractor/internal/models"
	"github.com/feichai0017/resume-extractor/internal/repository"
	"github.com/feichai0017/resume-extractor/pkg/converters"
	"github.com/feichai0017/resume-extractor/pkg/logger"
	"github.com/feichai0017/resume-extractor/pkg/storage/local"
)

const cannedResponse = `{"Name":"John Doe","Email address":"john@x.com","Phone number":"555-1234","IT Skills":"Python","Other Skills":"Leadership","Experience":"NONE"}`

type stubLLM struct {
	response string
	err      error
	gotText  string
}

func (s *stubLLM) ExtractFields(_ context.Context, text string) (string, error) {
	s.gotText = text
	return s.response, s.err
}

type memoryArchive struct {
	objects   map[string]string
	err       error
	deleteErr error
}

func (a *memoryArchive) Store(_ context.Context, r io.Reader, key string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	a.objects[key] = string(data)
	return key, nil
}

func (a *memoryArchive) Delete(_ context.Context, key string) error {
	if a.deleteErr != nil {
		return a.deleteErr
	}
	delete(a.objects, key)
	return nil
}

func (a *memoryArchive) CleanupBefore(context.Context, time.Time) error { return nil }

type fixture struct {
	svc       *Service
	llm       *stubLLM
	uploadDir string
	archive   *memoryArchive
}

func newFixture(t *testing.T, withArchive bool) *fixture {
	t.Helper()
	log := logger.NewTestLogger()
	dir := t.TempDir()

	uploads, err := local.NewLocalStorage(filepath.Join(dir, "uploads"), log)
	require.NoError(t, err)
	repo, err := repository.Open(context.Background(), config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(dir, "resume_data.db"),
	}, log)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	f := &fixture{llm: &stubLLM{response: cannedResponse}, uploadDir: filepath.Join(dir, "uploads")}
	if withArchive {
		f.archive = &memoryArchive{objects: map[string]string{}}
		f.svc = NewService(uploads, agent.NewProcessorFactory(log), f.llm, converters.NewJSONConverter(), repo, f.archive, log)
	} else {
		f.svc = NewService(uploads, agent.NewProcessorFactory(log), f.llm, converters.NewJSONConverter(), repo, nil, log)
	}
	return f
}

func (f *fixture) assertUploadDirEmpty(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func txtUpload(content string) Upload {
	return Upload{Filename: "resume.txt", Type: models.TXT, Content: strings.NewReader(content)}
}

func TestProcessTextResume(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	rec, err := f.svc.Process(ctx, txtUpload("John Doe, john@x.com, 555-1234, Skills: Python, Leadership"))
	require.NoError(t, err)

	assert.Equal(t, "John Doe, john@x.com, 555-1234, Skills: Python, Leadership", f.llm.gotText)
	assert.NotZero(t, rec.ID)
	assert.Equal(t, "John Doe", rec.Name)
	assert.Equal(t, "Python", rec.ITSkills)
	assert.Equal(t, "Leadership", rec.OtherSkills)
	assert.Equal(t, models.None, rec.AIML)
	assert.Equal(t, models.None, rec.Experience)

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, rec, all[0])
	f.assertUploadDirEmpty(t)
}

func TestProcessMalformedResponse(t *testing.T) {
	f := newFixture(t, false)
	f.llm.response = "```json\n{\"Name\":\"x\"}\n```"

	_, err := f.svc.Process(context.Background(), txtUpload("text"))
	reason, ok := llm.ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, llm.ReasonMalformedJSON, reason)
	assert.ErrorIs(t, err, converters.ErrMalformedJSON)

	n, err := f.svc.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	f.assertUploadDirEmpty(t)
}

func TestProcessLLMFailure(t *testing.T) {
	f := newFixture(t, false)
	f.llm.err = &llm.ExtractionError{Reason: llm.ReasonRequest, Err: errors.New("connection refused")}

	_, err := f.svc.Process(context.Background(), txtUpload("text"))
	reason, ok := llm.ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, llm.ReasonRequest, reason)
	f.assertUploadDirEmpty(t)
}

func TestProcessExtractionFailure(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.Process(context.Background(), txtUpload("\xff\xfe broken"))
	require.ErrorIs(t, err, ErrUnreadableFile)
	_, isLLM := llm.ReasonOf(err)
	assert.False(t, isLLM)
	assert.Empty(t, f.llm.gotText)
	f.assertUploadDirEmpty(t)
}

func TestProcessArchivesUpload(t *testing.T) {
	f := newFixture(t, true)

	rec, err := f.svc.Process(context.Background(), txtUpload("John Doe"))
	require.NoError(t, err)
	assert.Equal(t, "John Doe", f.archive.objects[ArchiveKey(rec.ID)])
}

func TestProcessArchiveFailureIsNotFatal(t *testing.T) {
	f := newFixture(t, true)
	f.archive.err = errors.New("bucket gone")

	rec, err := f.svc.Process(context.Background(), txtUpload("John Doe"))
	require.NoError(t, err)
	assert.NotZero(t, rec.ID)
	f.assertUploadDirEmpty(t)
}

func TestDeleteLastAndGet(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.svc.DeleteLast(ctx)
	assert.ErrorIs(t, err, repository.ErrNothingToDelete)

	rec, err := f.svc.Process(ctx, txtUpload("John Doe"))
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", got.Name)

	deleted, err := f.svc.DeleteLast(ctx)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, deleted.ID)

	_, err = f.svc.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestArchiveKey(t *testing.T) {
	assert.Equal(t, "resumes/7", ArchiveKey(7))
}

func TestDeleteLastRemovesArchivedUpload(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	first, err := f.svc.Process(ctx, txtUpload("first"))
	require.NoError(t, err)
	second, err := f.svc.Process(ctx, txtUpload("second"))
	require.NoError(t, err)
	require.Len(t, f.archive.objects, 2)

	deleted, err := f.svc.DeleteLast(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, deleted.ID)

	assert.NotContains(t, f.archive.objects, ArchiveKey(second.ID))
	assert.Equal(t, "first", f.archive.objects[ArchiveKey(first.ID)])
}

func TestDeleteLastArchiveFailureIsNotFatal(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	rec, err := f.svc.Process(ctx, txtUpload("John Doe"))
	require.NoError(t, err)
	f.archive.deleteErr = errors.New("bucket gone")

	deleted, err := f.svc.DeleteLast(ctx)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, deleted.ID)

	n, err := f.svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
