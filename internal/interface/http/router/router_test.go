package router

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appaccount "github.com/xiebiao/booknerds/internal/application/account"
	appbook "github.com/xiebiao/booknerds/internal/application/book"
	appreview "github.com/xiebiao/booknerds/internal/application/review"
	"github.com/xiebiao/booknerds/internal/domain/account"
	"github.com/xiebiao/booknerds/internal/domain/catalog"
	"github.com/xiebiao/booknerds/internal/domain/review"
	"github.com/xiebiao/booknerds/internal/infrastructure/config"
	"github.com/xiebiao/booknerds/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/booknerds/internal/interface/http/handler"
	"github.com/xiebiao/booknerds/internal/interface/http/middleware"
	"github.com/xiebiao/booknerds/pkg/mq"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// fakeCatalog 固定返回一本书，failing时模拟上游故障
type fakeCatalog struct {
	failing bool
}

func (f *fakeCatalog) Search(_ context.Context, query string) ([]catalog.Book, error) {
	if f.failing {
		return nil, catalog.ErrSearchFailed
	}
	return []catalog.Book{{ID: "b1", Title: "About " + query, Author: catalog.UnknownAuthor, Description: catalog.NoDescription}}, nil
}

func (f *fakeCatalog) Get(_ context.Context, id string) (*catalog.Book, error) {
	if f.failing {
		return nil, catalog.ErrLookupFailed
	}
	return &catalog.Book{ID: id, Title: "Book " + id, Author: "Ann", Description: "d"}, nil
}

type testServer struct {
	engine  *gin.Engine
	catalog *fakeCatalog
}

func newTestServer(t *testing.T, breakGlass bool) *testServer {
	t.Helper()
	store := memory.NewStore()
	accounts := account.NewService(store.Accounts())
	_, created, err := accounts.EnsureBootstrapAdmin(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	require.True(t, created)

	auth := account.NewAuthenticator(store.Accounts(), account.BreakGlassPolicy{
		Enabled:  breakGlass,
		Username: "admin",
		Password: "admin123",
	})
	reviews := review.NewService(store.Reviews(), store.Accounts())
	gw := &fakeCatalog{}
	pub := mq.NopPublisher{}

	engine := New(
		zap.NewNop(),
		config.CORSConfig{
			Enabled:       true,
			AllowOrigins:  []string{"http://localhost:8080"},
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Authorization", "Content-Type"},
			ExposeHeaders: []string{"WWW-Authenticate"},
			MaxAge:        600,
		},
		middleware.NewBasicAuth(auth),
		handler.NewAccountHandler(
			appaccount.NewRegisterUseCase(accounts, pub),
			appaccount.NewLoginUseCase(auth),
			appaccount.NewAdminUseCase(accounts, pub),
		),
		handler.NewReviewHandler(appreview.NewReviewUseCase(reviews, pub)),
		handler.NewBookHandler(appbook.NewBookUseCase(gw, reviews, "javascript")),
	)
	return &testServer{engine: engine, catalog: gw}
}

func basic(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

// register 注册访客并返回账号ID
func (s *testServer) register(t *testing.T, username string) uint {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/register", map[string]string{"username": username, "password": "pw"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp appaccount.AuthResponse
	decode(t, w, &resp)
	return resp.User.ID
}

func (s *testServer) addReview(t *testing.T, userID uint, bookID string, rating int, recommended bool) uint {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/reviews", map[string]interface{}{
		"userId":      userID,
		"bookId":      bookID,
		"bookTitle":   "Title " + bookID,
		"reviewText":  "text",
		"rating":      rating,
		"recommended": recommended,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp appreview.CreateReviewResponse
	decode(t, w, &resp)
	return resp.ReviewID
}

func TestPing(t *testing.T) {
	s := newTestServer(t, true)
	w := s.do(t, http.MethodGet, "/ping", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong","status":"healthy"}`, w.Body.String())
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t, true)

	t.Run("注册成功", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/register", map[string]string{"username": "alice", "password": "pw"}, "")
		require.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"message":"User registered successfully","user":{"id":2,"username":"alice","role":"guest"}}`, w.Body.String())
		t.Logf("✓ 注册返回201和访客账号")
	})

	t.Run("/api/users同样可以注册", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/users", map[string]string{"username": "bob", "password": "pw"}, "")
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("用户名重复返回409", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/register", map[string]string{"username": "alice", "password": "x"}, "")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"error":"Conflict","message":"Username already exists"}`, w.Body.String())
	})

	t.Run("字段为空返回400", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/register", map[string]string{"username": "carol"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(t, http.MethodPost, "/api/register", "{not json", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("登录成功", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/login", nil, basic("alice", "pw"))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Login successful","user":{"id":2,"username":"alice","role":"guest"}}`, w.Body.String())
	})

	t.Run("缺少凭证返回401和登录realm", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/login", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, `Basic realm="BookNerds Login"`, w.Header().Get("WWW-Authenticate"))
	})

	t.Run("密码错误返回401", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/login", nil, basic("alice", "wrong"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, `Basic realm="BookNerds Login"`, w.Header().Get("WWW-Authenticate"))

		var body map[string]string
		decode(t, w, &body)
		assert.Equal(t, "Invalid credentials", body["message"])
	})
}

func TestReviews(t *testing.T) {
	s := newTestServer(t, true)
	alice := s.register(t, "alice")

	first := s.addReview(t, alice, "b1", 8, true)
	second := s.addReview(t, alice, "b2", 5, false)
	assert.Greater(t, second, first)

	t.Run("最新的书评在前", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/reviews", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var items []appreview.ReviewItem
		decode(t, w, &items)
		require.Len(t, items, 2)
		assert.Equal(t, second, items[0].ID)
		assert.Equal(t, "alice", items[0].Username)
		assert.Len(t, items[0].Timestamp, len(appreview.TimestampLayout))
	})

	t.Run("按图书和账号过滤", func(t *testing.T) {
		var items []appreview.ReviewItem
		w := s.do(t, http.MethodGet, "/api/reviews/book/b1", nil, "")
		decode(t, w, &items)
		require.Len(t, items, 1)
		assert.Equal(t, first, items[0].ID)

		w = s.do(t, http.MethodGet, "/api/reviews/user/2", nil, "")
		decode(t, w, &items)
		assert.Len(t, items, 2)

		w = s.do(t, http.MethodGet, "/api/reviews/book/unknown", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("账号ID不是数字返回400", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/reviews/user/abc", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("缺少字段返回400", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/reviews", map[string]interface{}{"userId": alice, "bookId": "b1"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"InvalidInput","message":"All fields are required"}`, w.Body.String())
	})

	t.Run("账号不存在返回404", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/reviews", map[string]interface{}{
			"userId": 99, "bookId": "b1", "bookTitle": "t", "reviewText": "x", "rating": 3,
		}, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("删除书评需要管理员", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, "/api/reviews/1", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, `Basic realm="Admin Access"`, w.Header().Get("WWW-Authenticate"))

		w = s.do(t, http.MethodDelete, "/api/reviews/1", nil, basic("alice", "pw"))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("WWW-Authenticate"))

		w = s.do(t, http.MethodDelete, "/api/reviews/1", nil, basic("admin", "admin123"))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Review deleted successfully"}`, w.Body.String())
		t.Logf("✓ 管理员删除书评成功")
	})
}

func TestBooks(t *testing.T) {
	s := newTestServer(t, true)
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")

	s.addReview(t, alice, "b1", 6, true)
	s.addReview(t, bob, "b1", 10, false)
	s.addReview(t, alice, "b2", 9, true)

	t.Run("搜索为空时使用默认关键词", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/books/search", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"id":"b1","title":"About javascript","author":"Unknown","thumbnail":null,"description":"No description available"}]`, w.Body.String())
	})

	t.Run("图书详情", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/books/xyz", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		decode(t, w, &body)
		assert.Equal(t, "xyz", body["id"])
	})

	t.Run("评分榜", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/books/top-rated", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var items []appbook.TopRatedItem
		decode(t, w, &items)
		require.Len(t, items, 2)
		assert.Equal(t, "b2", items[0].ID)
		assert.Equal(t, "b1", items[1].ID)
		assert.Equal(t, 2, items[1].ReviewCount)
	})

	t.Run("推荐榜", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/books/most-recommended", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var items []appbook.RecommendedItem
		decode(t, w, &items)
		require.Len(t, items, 2)
		assert.Equal(t, "b2", items[0].ID)
		assert.Equal(t, 100, items[0].RecommendPercent)
		assert.Equal(t, 50, items[1].RecommendPercent)
	})

	t.Run("目录故障返回500", func(t *testing.T) {
		s.catalog.failing = true
		defer func() { s.catalog.failing = false }()

		w := s.do(t, http.MethodGet, "/api/books/search?q=go", nil, "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"UpstreamFailure","message":"Error fetching books"}`, w.Body.String())
	})
}

func TestAdmin(t *testing.T) {
	s := newTestServer(t, false)
	admin := basic("admin", "admin123")
	alice := s.register(t, "alice")
	s.addReview(t, alice, "b1", 7, true)

	t.Run("非管理员返回403", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/admin/users", nil, basic("alice", "pw"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("账号列表不包含密码", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/admin/users", nil, admin)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"id":1,"username":"admin","role":"admin"},{"id":2,"username":"alice","role":"guest"}]`, w.Body.String())
	})

	t.Run("管理员查看全部书评", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/admin/reviews", nil, admin)
		require.Equal(t, http.StatusOK, w.Code)

		var items []appreview.ReviewItem
		decode(t, w, &items)
		assert.Len(t, items, 1)
	})

	t.Run("管理员检查", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/admin/check?userId=1", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"isAdmin":true,"message":"User is an admin"}`, w.Body.String())

		w = s.do(t, http.MethodGet, "/api/admin/check?userId=2", nil, "")
		assert.JSONEq(t, `{"isAdmin":false,"message":"User is not an admin"}`, w.Body.String())

		w = s.do(t, http.MethodGet, "/api/admin/check", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(t, http.MethodGet, "/api/admin/check?userId=42", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"isAdmin":false,"message":"User not found"}`, w.Body.String())
	})

	t.Run("创建账号和修改角色", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/admin/users", map[string]string{"username": "mod", "password": "pw", "role": "admin"}, admin)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created appaccount.UserView
		decode(t, w, &created)
		assert.Equal(t, "admin", created.Role)

		w = s.do(t, http.MethodPut, "/api/admin/users/2/role", map[string]string{"role": "admin"}, admin)
		require.Equal(t, http.StatusOK, w.Code)

		// 提升后alice可以访问管理接口
		w = s.do(t, http.MethodGet, "/api/admin/users", nil, basic("alice", "pw"))
		assert.Equal(t, http.StatusOK, w.Code)

		w = s.do(t, http.MethodPut, "/api/admin/users/2/role", map[string]string{"role": "owner"}, admin)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(t, http.MethodPut, "/api/admin/users/1/role", map[string]string{"role": "guest"}, admin)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("引导管理员不可删除", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, "/api/admin/users/1", nil, admin)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"error":"Forbidden","message":"Cannot delete the admin user"}`, w.Body.String())
	})

	t.Run("删除账号同时删除书评", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, "/api/admin/users/2", nil, admin)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"User deleted successfully"}`, w.Body.String())

		w = s.do(t, http.MethodGet, "/api/reviews", nil, "")
		assert.JSONEq(t, `[]`, w.Body.String())

		w = s.do(t, http.MethodDelete, "/api/admin/users/2", nil, admin)
		assert.Equal(t, http.StatusNotFound, w.Code)
		t.Logf("✓ 级联删除生效")
	})
}

func TestBreakGlass(t *testing.T) {
	t.Run("启用时引导凭证直接通过", func(t *testing.T) {
		s := newTestServer(t, true)
		w := s.do(t, http.MethodGet, "/api/admin/users", nil, basic("admin", "admin123"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("错误的管理员密码返回401", func(t *testing.T) {
		s := newTestServer(t, true)
		w := s.do(t, http.MethodGet, "/api/admin/users", nil, basic("admin", "nope"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, `Basic realm="Admin Access"`, w.Header().Get("WWW-Authenticate"))
	})
}

func TestUnmatchedRoute(t *testing.T) {
	s := newTestServer(t, true)
	w := s.do(t, http.MethodGet, "/api/nothing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, true)

	t.Run("预检请求返回204", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/admin/users", nil)
		req.Header.Set("Origin", "http://localhost:8080")
		req.Header.Set("Access-Control-Request-Method", "GET")
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:8080", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("不允许的Origin返回403", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/reviews", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("没有Origin不受影响", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/reviews", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
