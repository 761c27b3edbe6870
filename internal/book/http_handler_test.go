package book

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookstore/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (*HTTPHandler, *MockRepository) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHTTPHandler(NewService(mockRepo, NewValidator()), logger), mockRepo
}

func TestHTTPHandler_List(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().List(gomock.Any()).Return([]Book{testBook}, nil)

		w := httptest.NewRecorder()
		handler.List(w, testutil.NewRequest(http.MethodGet, "/books", nil))

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusOK, resp.Code)
		books, ok := resp.Body["books"].([]interface{})
		require.True(t, ok)
		require.Len(t, books, 1)
		assert.Equal(t, "Joseph Conrad", books[0].(map[string]interface{})["author"])
	})

	t.Run("empty list is an array", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().List(gomock.Any()).Return(nil, nil)

		w := httptest.NewRecorder()
		handler.List(w, testutil.NewRequest(http.MethodGet, "/books", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"books":[]}`, w.Body.String())
	})

	t.Run("error", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().List(gomock.Any()).Return(nil, context.DeadlineExceeded)

		w := httptest.NewRecorder()
		handler.List(w, testutil.NewRequest(http.MethodGet, "/books", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().GetByISBN(gomock.Any(), "1673303056").Return(testBook, nil)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodGet, "/books/1673303056", nil)
		r.SetPathValue("isbn", "1673303056")
		handler.Get(w, r)

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "Heart of Darkness", resp.Body["book"].(map[string]interface{})["title"])
	})

	t.Run("not found", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().GetByISBN(gomock.Any(), "123").Return(Book{}, ErrNotFound)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodGet, "/books/123", nil)
		r.SetPathValue("isbn", "123")
		handler.Get(w, r)

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Equal(t, []string{"There is no book with an isbn '123'"}, testutil.ErrorMessages(resp.Body))
	})
}

func TestHTTPHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(m *MockRepository)
		expectedStatus int
	}{
		{
			name: "created",
			body: testutil.BookPayload(),
			setupMock: func(m *MockRepository) {
				m.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, b Book) (Book, error) { return b, nil })
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing isbn",
			body:           map[string]any{"author": "Oscar Wilde"},
			setupMock:      func(m *MockRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed json",
			body:           `{"isbn":`,
			setupMock:      func(m *MockRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "array body",
			body:           `[1,2,3]`,
			setupMock:      func(m *MockRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "null body",
			body:           `null`,
			setupMock:      func(m *MockRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "trailing data",
			body:           `{"isbn":"1","amazon_url":"https://a.co/b","author":"a","language":"en","pages":10,"publisher":"p","title":"t","year":2000} trailing garbage`,
			setupMock:      func(m *MockRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "second json value",
			body:           `{"isbn":"1","amazon_url":"https://a.co/b","author":"a","language":"en","pages":10,"publisher":"p","title":"t","year":2000} {}`,
			setupMock:      func(m *MockRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "trailing whitespace",
			body: "{\"isbn\":\"1\",\"amazon_url\":\"https://a.co/b\",\"author\":\"a\",\"language\":\"en\",\"pages\":10,\"publisher\":\"p\",\"title\":\"t\",\"year\":2000}\n  ",
			setupMock: func(m *MockRepository) {
				m.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, b Book) (Book, error) { return b, nil })
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "fractional pages",
			body:           `{"isbn":"1","amazon_url":"https://a.co/b","author":"a","language":"en","pages":10.5,"publisher":"p","title":"t","year":2000}`,
			setupMock:      func(m *MockRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate isbn",
			body: testutil.BookPayload(),
			setupMock: func(m *MockRepository) {
				m.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(Book{}, ErrDuplicateISBN)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "server error",
			body: testutil.BookPayload(),
			setupMock: func(m *MockRepository) {
				m.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(Book{}, context.DeadlineExceeded)
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockRepo := newTestHandler(t)
			tt.setupMock(mockRepo)

			w := httptest.NewRecorder()
			handler.Create(w, testutil.NewRequest(http.MethodPost, "/books", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestHTTPHandler_CreateResponseShape(t *testing.T) {
	handler, mockRepo := newTestHandler(t)
	mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b Book) (Book, error) { return b, nil })

	w := httptest.NewRecorder()
	handler.Create(w, testutil.NewRequest(http.MethodPost, "/books", testutil.BookPayload()))

	resp := testutil.RecordHTTPResponse(w)
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	created := resp.Body["book"].(map[string]interface{})
	assert.Equal(t, "Patrick O'Brian", created["author"])
	assert.Equal(t, float64(400), created["pages"])
}

func TestHTTPHandler_CreateValidationBody(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	handler.Create(w, testutil.NewRequest(http.MethodPost, "/books", map[string]any{"author": "Oscar Wilde"}))

	resp := testutil.RecordHTTPResponse(w)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	errBody := resp.Body["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
	assert.Equal(t, float64(http.StatusBadRequest), errBody["status"])
	assert.Contains(t, testutil.ErrorMessages(resp.Body), "isbn is required")
	assert.Len(t, testutil.ErrorMessages(resp.Body), 7)
}

func TestHTTPHandler_CreateRejectsTrailingData(t *testing.T) {
	handler, _ := newTestHandler(t)
	body := `{"isbn":"1","amazon_url":"https://a.co/b","author":"a","language":"en","pages":10,"publisher":"p","title":"t","year":2000} trailing garbage`

	w := httptest.NewRecorder()
	handler.Create(w, testutil.NewRequest(http.MethodPost, "/books", body))

	resp := testutil.RecordHTTPResponse(w)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, []string{"request body must be a JSON object"}, testutil.ErrorMessages(resp.Body))
}

func TestHTTPHandler_Update(t *testing.T) {
	withISBN := testutil.UpdatePayload()
	withISBN["isbn"] = "99999999"

	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(m *MockRepository)
		expectedStatus int
	}{
		{
			name: "updated",
			body: testutil.UpdatePayload(),
			setupMock: func(m *MockRepository) {
				m.EXPECT().Update(gomock.Any(), "1673303056", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, b Book) (Book, error) { return b, nil })
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "isbn in body",
			body:           withISBN,
			setupMock:      func(m *MockRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "trailing data",
			body:           `{"amazon_url":"https://a.co/b","author":"a","language":"en","pages":10,"publisher":"p","title":"t","year":2000} trailing garbage`,
			setupMock:      func(m *MockRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty body",
			body:           ``,
			setupMock:      func(m *MockRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "not found",
			body: testutil.UpdatePayload(),
			setupMock: func(m *MockRepository) {
				m.EXPECT().Update(gomock.Any(), "1673303056", gomock.Any()).Return(Book{}, ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockRepo := newTestHandler(t)
			tt.setupMock(mockRepo)

			w := httptest.NewRecorder()
			r := testutil.NewRequest(http.MethodPut, "/books/1673303056", tt.body)
			r.SetPathValue("isbn", "1673303056")
			handler.Update(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestHTTPHandler_UpdateKeepsISBN(t *testing.T) {
	handler, mockRepo := newTestHandler(t)
	mockRepo.EXPECT().Update(gomock.Any(), "1673303056", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, b Book) (Book, error) { return b, nil })

	payload := testutil.UpdatePayload()
	payload["title"] = "HMS Surprise"
	w := httptest.NewRecorder()
	r := testutil.NewRequest(http.MethodPut, "/books/1673303056", payload)
	r.SetPathValue("isbn", "1673303056")
	handler.Update(w, r)

	resp := testutil.RecordHTTPResponse(w)
	require.Equal(t, http.StatusOK, resp.Code)
	updated := resp.Body["book"].(map[string]interface{})
	assert.Equal(t, "1673303056", updated["isbn"])
	assert.Equal(t, "HMS Surprise", updated["title"])
}

func TestHTTPHandler_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		mockRepo.EXPECT().Delete(gomock.Any(), "1673303056").Return(nil)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodDelete, "/books/1673303056", nil)
		r.SetPathValue("isbn", "1673303056")
		handler.Delete(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Book deleted"}`, w.Body.String())
	})

	t.Run("second delete is not found", func(t *testing.T) {
		handler, mockRepo := newTestHandler(t)
		gomock.InOrder(
			mockRepo.EXPECT().Delete(gomock.Any(), "1673303056").Return(nil),
			mockRepo.EXPECT().Delete(gomock.Any(), "1673303056").Return(ErrNotFound),
		)

		codes := make([]int, 0, 2)
		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			r := testutil.NewRequest(http.MethodDelete, "/books/1673303056", nil)
			r.SetPathValue("isbn", "1673303056")
			handler.Delete(w, r)
			codes = append(codes, w.Code)
		}

		assert.Equal(t, []int{http.StatusOK, http.StatusNotFound}, codes)
	})
}
