package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/mocks"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeIndex struct {
	added     map[uuid.UUID][]string
	deleted   []uuid.UUID
	addErr    error
	deleteErr error
}

func (f *fakeIndex) AddChunks(_ context.Context, fileID uuid.UUID, _ string, chunks []string) error {
	if f.addErr != nil {
		return f.addErr
	}
	if f.added == nil {
		f.added = make(map[uuid.UUID][]string)
	}
	f.added[fileID] = chunks
	return nil
}

func (f *fakeIndex) DeleteFile(_ context.Context, fileID uuid.UUID) error {
	f.deleted = append(f.deleted, fileID)
	return f.deleteErr
}

type chunkCounter struct{ total int }

func (c *chunkCounter) ObserveChunksIngested(n int) { c.total += n }

func newTestDocument(t *testing.T) *domain.KnowledgeDocument {
	t.Helper()
	doc, err := domain.NewKnowledgeDocument("指南.txt", ContentTypeText, "偏瘫康复。针刺治疗。中药调理。")
	require.NoError(t, err)
	return doc
}

func TestIngester_IngestDocument(t *testing.T) {
	t.Parallel()

	doc := newTestDocument(t)
	doc.Error = "previous failure"

	docs := &mocks.KnowledgeDocumentStore{}
	docs.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	docs.On("UpdateStatus", mock.Anything, doc.ID, domain.DocumentStatusProcessing).Return(nil).Once()
	docs.On("UpdateStatus", mock.Anything, doc.ID, domain.DocumentStatusCompleted).Return(nil).Once()

	index := &fakeIndex{}
	counter := &chunkCounter{}
	ingester, err := NewIngester(docs, index, NewChunker(8, 0), counter, testLogger())
	require.NoError(t, err)

	require.NoError(t, ingester.IngestDocument(context.Background(), doc.ID))

	docs.AssertExpectations(t)
	assert.Equal(t, []uuid.UUID{doc.ID}, index.deleted)
	assert.Equal(t, []string{"偏瘫康复。", "针刺治疗。", "中药调理。"}, index.added[doc.ID])
	assert.Equal(t, domain.DocumentStatusCompleted, doc.Status)
	assert.Equal(t, 3, doc.ChunkCount)
	assert.Empty(t, doc.Error)
	assert.Equal(t, 3, counter.total)
}

func TestIngester_IndexFailureMarksDocumentFailed(t *testing.T) {
	t.Parallel()

	doc := newTestDocument(t)
	indexErr := errors.New("vector store unavailable")

	docs := &mocks.KnowledgeDocumentStore{}
	docs.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	docs.On("UpdateStatus", mock.Anything, doc.ID, domain.DocumentStatusProcessing).Return(nil).Once()
	docs.On("UpdateStatus", mock.Anything, doc.ID, domain.DocumentStatusFailed).Return(nil).Once()

	counter := &chunkCounter{}
	ingester, err := NewIngester(docs, &fakeIndex{addErr: indexErr}, NewChunker(8, 0), counter, nil)
	require.NoError(t, err)

	err = ingester.IngestDocument(context.Background(), doc.ID)
	require.ErrorIs(t, err, indexErr)

	docs.AssertExpectations(t)
	assert.Equal(t, domain.DocumentStatusFailed, doc.Status)
	assert.Equal(t, indexErr.Error(), doc.Error)
	assert.Zero(t, doc.ChunkCount)
	assert.Zero(t, counter.total)
}

func TestIngester_FailureStatusWriteAlsoFails(t *testing.T) {
	t.Parallel()

	doc := newTestDocument(t)
	indexErr := errors.New("delete failed")
	writeErr := errors.New("connection reset")

	docs := &mocks.KnowledgeDocumentStore{}
	docs.On("GetByID", mock.Anything, doc.ID).Return(doc, nil)
	docs.On("UpdateStatus", mock.Anything, doc.ID, domain.DocumentStatusProcessing).Return(nil).Once()
	docs.On("UpdateStatus", mock.Anything, doc.ID, domain.DocumentStatusFailed).Return(writeErr).Once()

	ingester, err := NewIngester(docs, &fakeIndex{deleteErr: indexErr}, NewChunker(8, 0), nil, nil)
	require.NoError(t, err)

	err = ingester.IngestDocument(context.Background(), doc.ID)
	assert.ErrorIs(t, err, indexErr)
	assert.ErrorIs(t, err, writeErr)
}

func TestIngester_MissingDocument(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	docs := &mocks.KnowledgeDocumentStore{}
	docs.On("GetByID", mock.Anything, id).Return(nil, store.ErrDocumentNotFound)

	index := &fakeIndex{}
	ingester, err := NewIngester(docs, index, NewChunker(8, 0), nil, nil)
	require.NoError(t, err)

	err = ingester.IngestDocument(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)
	assert.Empty(t, index.deleted)
	docs.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestNewIngester_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewIngester(nil, &fakeIndex{}, NewChunker(0, 0), nil, nil)
	assert.Error(t, err)
	_, err = NewIngester(&mocks.KnowledgeDocumentStore{}, nil, NewChunker(0, 0), nil, nil)
	assert.Error(t, err)
}
