package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"

	"auctionmap/internal/api"
	"auctionmap/internal/detail"
	"auctionmap/internal/filter"
	"auctionmap/internal/listing"
	"auctionmap/internal/models"
	"auctionmap/internal/saved"
	"auctionmap/internal/session"
)

type stubAPI struct {
	register func(models.RegisterRequest) (models.RegisterResponse, error)
	login    func(models.LoginRequest) (models.TokenResponse, error)
	items    func(api.ItemQuery) (models.ListingPage, error)
	item     func(models.ListingID) (models.ListingDetail, error)
	savedErr error
	saved    []models.Listing
	stats    models.DashboardStats
	users    []models.User
	batch    func() (string, error)
}

func (s *stubAPI) Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResponse, error) {
	return s.register(req)
}

func (s *stubAPI) Login(ctx context.Context, req models.LoginRequest) (models.TokenResponse, error) {
	return s.login(req)
}

func (s *stubAPI) ListItems(ctx context.Context, q api.ItemQuery) (models.ListingPage, error) {
	if s.items == nil {
		return models.ListingPage{}, nil
	}
	return s.items(q)
}

func (s *stubAPI) GetItem(ctx context.Context, id models.ListingID) (models.ListingDetail, error) {
	return s.item(id)
}

func (s *stubAPI) ListSavedItems(ctx context.Context) ([]models.Listing, error) {
	return s.saved, s.savedErr
}

func (s *stubAPI) AddSavedItem(ctx context.Context, id models.ListingID) error    { return nil }
func (s *stubAPI) DeleteSavedItem(ctx context.Context, id models.ListingID) error { return nil }

func (s *stubAPI) StatisticsSummary(ctx context.Context) (models.DashboardStats, error) {
	return s.stats, nil
}

func (s *stubAPI) ListUsers(ctx context.Context) ([]models.User, error) { return s.users, nil }

func (s *stubAPI) RunBatch(ctx context.Context) (string, error) { return s.batch() }

type memStorage struct{ token string }

func (m *memStorage) Load(ctx context.Context) (string, error)     { return m.token, nil }
func (m *memStorage) Save(ctx context.Context, token string) error { m.token = token; return nil }
func (m *memStorage) Remove(ctx context.Context) error             { m.token = ""; return nil }

func withParam(r *http.Request, name, value string) *http.Request {
	q := r.URL.Query()
	q.Set(":"+name, value)
	r.URL.RawQuery = q.Encode()
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
}

func TestSearchRegionResetsPage(t *testing.T) {
	var queries []api.ItemQuery
	stub := &stubAPI{items: func(q api.ItemQuery) (models.ListingPage, error) {
		queries = append(queries, q)
		return models.ListingPage{PageInfo: models.PageInfo{CurrentPage: q.Page}}, nil
	}}
	ctrl := filter.NewController()
	coord := listing.NewCoordinator(context.Background(), stub, 10, models.GeoPoint{}, nil)
	ctrl.Subscribe(coord.Changed)
	h := &SearchHandler{Filter: ctrl, Listing: coord}

	rec := httptest.NewRecorder()
	h.SetPage(rec, httptest.NewRequest(http.MethodPut, "/search/page", strings.NewReader(`{"page":3}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("SetPage: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.SetRegion(rec, httptest.NewRequest(http.MethodPut, "/search/region", strings.NewReader(`{"region":"서울특별시"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("SetRegion: expected 200, got %d", rec.Code)
	}
	var resp searchResponse
	decodeBody(t, rec, &resp)
	if resp.Committed.Page != 1 || resp.Committed.Region != "서울특별시" {
		t.Errorf("unexpected committed state %+v", resp.Committed)
	}
	if resp.Listing.Loading || resp.Listing.Error != "" || len(resp.Listing.Items) != 0 {
		t.Errorf("unexpected listing state %+v", resp.Listing)
	}
	if last := queries[len(queries)-1]; last.Region != "서울특별시" || last.Page != 1 {
		t.Errorf("unexpected last query %+v", last)
	}
}

func TestSearchValidation(t *testing.T) {
	ctrl := filter.NewController()
	coord := listing.NewCoordinator(context.Background(), &stubAPI{}, 10, models.GeoPoint{}, nil)
	h := &SearchHandler{Filter: ctrl, Listing: coord}

	tests := []struct {
		name    string
		handler http.HandlerFunc
		body    string
	}{
		{"unknown region", h.SetRegion, `{"region":"서울"}`},
		{"bad price", h.UpdateDraft, `{"priceFrom":"abc"}`},
		{"bad date", h.UpdateDraft, `{"dateFrom":"2024/01/01"}`},
		{"malformed", h.Commit, `{"keyword":`},
		{"unknown field", h.UpdateDraft, `{"color":"red"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler(rec, httptest.NewRequest(http.MethodPut, "/", strings.NewReader(tt.body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestCommitUsesDraft(t *testing.T) {
	var got api.ItemQuery
	stub := &stubAPI{items: func(q api.ItemQuery) (models.ListingPage, error) {
		got = q
		return models.ListingPage{}, nil
	}}
	ctrl := filter.NewController()
	coord := listing.NewCoordinator(context.Background(), stub, 10, models.GeoPoint{}, nil)
	ctrl.Subscribe(coord.Changed)
	h := &SearchHandler{Filter: ctrl, Listing: coord}

	rec := httptest.NewRecorder()
	h.UpdateDraft(rec, httptest.NewRequest(http.MethodPut, "/search/draft", strings.NewReader(`{"keyword":"토지","priceFrom":"1000","dateTo":"2024-12-31"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("UpdateDraft: expected 200, got %d", rec.Code)
	}
	if got.Keyword != "" {
		t.Fatalf("draft update must not search, got query %+v", got)
	}

	rec = httptest.NewRecorder()
	h.Commit(rec, httptest.NewRequest(http.MethodPost, "/search/commit", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Commit: expected 200, got %d", rec.Code)
	}
	if got.Keyword != "토지" || got.PriceFrom == nil || *got.PriceFrom != 1000 || got.DateTo == nil || got.Page != 1 {
		t.Errorf("unexpected query %+v", got)
	}
	if got.PriceTo != nil || got.DateFrom != nil {
		t.Errorf("unset bounds must stay nil: %+v", got)
	}
}

func adminToken(t *testing.T, role string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": role, "exp": time.Now().Add(time.Hour).Unix()}).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestLoginStoresTokenAndFetchesSaved(t *testing.T) {
	stub := &stubAPI{
		login: func(req models.LoginRequest) (models.TokenResponse, error) {
			if req.Email != "a@b.c" {
				t.Errorf("expected trimmed email, got %q", req.Email)
			}
			return models.TokenResponse{AccessToken: adminToken(t, "ADMIN"), TokenType: "Bearer"}, nil
		},
		saved: []models.Listing{{ID: "X1"}, {ID: "X2"}},
	}
	storage := &memStorage{}
	sess := session.NewStore(context.Background(), storage, nil)
	store := saved.NewStore(stub, sess, nil)
	sess.Subscribe(store.SessionChanged(context.Background()))
	h := &SessionHandler{API: stub, Session: sess}

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/session/login", strings.NewReader(`{"email":" a@b.c ","password":"pw"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp sessionResponse
	decodeBody(t, rec, &resp)
	if !resp.LoggedIn || !resp.IsAdmin {
		t.Errorf("unexpected session %+v", resp)
	}
	if resp.ExpiresAt == nil || !resp.ExpiresAt.After(time.Now()) {
		t.Errorf("expected future expiry, got %v", resp.ExpiresAt)
	}
	if storage.token == "" {
		t.Error("expected token persisted")
	}

	store.Wait()
	if ids := store.IDs(); len(ids) != 2 {
		t.Errorf("expected saved ids fetched after login, got %v", ids)
	}

	rec = httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/session/logout", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}
	if len(store.IDs()) != 0 || storage.token != "" {
		t.Errorf("logout must clear saved ids and storage: ids=%v token=%q", store.IDs(), storage.token)
	}
}

func TestLoginFailureMessage(t *testing.T) {
	stub := &stubAPI{login: func(models.LoginRequest) (models.TokenResponse, error) {
		return models.TokenResponse{}, &api.Error{Kind: api.KindServer, StatusCode: http.StatusUnauthorized, Message: "비밀번호가 일치하지 않습니다."}
	}}
	h := &SessionHandler{API: stub, Session: session.NewStore(context.Background(), &memStorage{}, nil)}

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/session/login", strings.NewReader(`{"email":"a@b.c","password":"x"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if resp.Message != "비밀번호가 일치하지 않습니다." {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestRegisterPersistsReturnedToken(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		wantLogin bool
	}{
		{"with token", adminToken(t, "USER"), true},
		{"without token", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubAPI{register: func(req models.RegisterRequest) (models.RegisterResponse, error) {
				return models.RegisterResponse{ID: 7, Email: req.Email, Nickname: req.Nickname, AccessToken: tt.token}, nil
			}}
			sess := session.NewStore(context.Background(), &memStorage{}, nil)
			h := &SessionHandler{API: stub, Session: sess}

			rec := httptest.NewRecorder()
			h.Register(rec, httptest.NewRequest(http.MethodPost, "/session/register", strings.NewReader(`{"email":"a@b.c","password":"pw","nickname":"닉"}`)))
			if rec.Code != http.StatusCreated {
				t.Fatalf("expected 201, got %d", rec.Code)
			}
			if sess.LoggedIn() != tt.wantLogin {
				t.Errorf("expected logged in %t", tt.wantLogin)
			}
			if strings.Contains(rec.Body.String(), "accessToken") {
				t.Error("token must not be echoed to the view")
			}
		})
	}
}

func TestToggleRequiresLogin(t *testing.T) {
	sess := session.NewStore(context.Background(), &memStorage{}, nil)
	h := &SavedHandler{Saved: saved.NewStore(&stubAPI{}, sess, nil)}

	rec := httptest.NewRecorder()
	h.Toggle(rec, withParam(httptest.NewRequest(http.MethodPost, "/saved/A100/toggle", nil), "id", "A100"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if resp.Message != "로그인이 필요합니다." {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestToggleAddsAndRemoves(t *testing.T) {
	sess := session.NewStore(context.Background(), &memStorage{token: "t"}, nil)
	h := &SavedHandler{Saved: saved.NewStore(&stubAPI{}, sess, nil)}

	for _, want := range []bool{true, false} {
		rec := httptest.NewRecorder()
		h.Toggle(rec, withParam(httptest.NewRequest(http.MethodPost, "/saved/A100/toggle", nil), "id", "A100"))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp toggleResponse
		decodeBody(t, rec, &resp)
		if resp.Saved != want {
			t.Errorf("expected saved=%t, got %+v", want, resp)
		}
	}
}

func TestMyPageSessionExpired(t *testing.T) {
	sess := session.NewStore(context.Background(), &memStorage{token: "t"}, nil)
	stub := &stubAPI{savedErr: &api.Error{
		Kind:       api.KindServer,
		StatusCode: http.StatusForbidden,
		Message:    api.MsgSessionExpired,
		Err:        api.ErrSessionExpired,
	}}
	h := &SavedHandler{Saved: saved.NewStore(stub, sess, nil)}

	rec := httptest.NewRecorder()
	h.MyPage(rec, httptest.NewRequest(http.MethodGet, "/mypage", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if resp.Message != api.MsgSessionExpired {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestItemSelectFailure(t *testing.T) {
	stub := &stubAPI{item: func(id models.ListingID) (models.ListingDetail, error) {
		return models.ListingDetail{}, errors.New("connection reset")
	}}
	h := &ItemHandler{Detail: detail.NewLoader(stub, nil)}

	rec := httptest.NewRecorder()
	h.Select(rec, withParam(httptest.NewRequest(http.MethodGet, "/items/X1", nil), "id", "X1"))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if resp.Message != detail.AlertMessage {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestRunBatchMessages(t *testing.T) {
	tests := []struct {
		name   string
		batch  func() (string, error)
		status int
		want   string
	}{
		{"success", func() (string, error) { return "수집 완료", nil }, http.StatusOK, "성공: 수집 완료"},
		{"failure", func() (string, error) {
			return "", &api.Error{Kind: api.KindServer, StatusCode: http.StatusInternalServerError, Message: "배치 오류"}
		}, http.StatusBadGateway, "실패: 배치 오류"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &AdminHandler{API: &stubAPI{batch: tt.batch}}
			rec := httptest.NewRecorder()
			h.RunBatch(rec, httptest.NewRequest(http.MethodPost, "/admin/batch", nil))
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			var resp map[string]string
			decodeBody(t, rec, &resp)
			if resp["message"] != tt.want {
				t.Errorf("expected %q, got %q", tt.want, resp["message"])
			}
		})
	}
}

func TestStateSnapshot(t *testing.T) {
	lat, lng := 37.1, 127.1
	stub := &stubAPI{items: func(q api.ItemQuery) (models.ListingPage, error) {
		return models.ListingPage{Data: []models.Listing{{ID: "X1", Latitude: &lat, Longitude: &lng}, {ID: "X2"}}}, nil
	}}
	sess := session.NewStore(context.Background(), &memStorage{}, nil)
	ctrl := filter.NewController()
	coord := listing.NewCoordinator(context.Background(), stub, 10, models.GeoPoint{}, nil)
	if err := coord.Load(context.Background(), ctrl.Committed()); err != nil {
		t.Fatal(err)
	}
	h := &StateHandler{
		Filter:  ctrl,
		Listing: coord,
		Saved:   saved.NewStore(stub, sess, nil),
		Session: sess,
		Detail:  detail.NewLoader(stub, nil),
		MapKey:  "js-key",
	}

	rec := httptest.NewRecorder()
	h.State(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Committed struct {
			Page        int    `json:"page"`
			RegionLabel string `json:"regionLabel"`
		} `json:"committed"`
		Map struct {
			AppKey  string `json:"appKey"`
			Center  models.GeoPoint
			Markers []struct {
				ID string `json:"id"`
			} `json:"markers"`
		} `json:"map"`
		Session sessionResponse `json:"session"`
	}
	decodeBody(t, rec, &resp)
	if resp.Committed.Page != 1 || resp.Committed.RegionLabel != "전체" {
		t.Errorf("unexpected committed %+v", resp.Committed)
	}
	if len(resp.Map.Markers) != 1 || resp.Map.Markers[0].ID != "X1" || resp.Map.AppKey != "js-key" {
		t.Errorf("unexpected map %+v", resp.Map)
	}
	if resp.Session.LoggedIn {
		t.Error("expected logged out session")
	}
}
