package handler_test

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chilaquiles/internal/app/config"
	"chilaquiles/internal/app/mocks"
	"chilaquiles/internal/app/role"

	"go.uber.org/mock/gomock"
)

func createDish(t *testing.T, s *testServer, token string, body interface{}) uint {
	t.Helper()
	w := s.do(request{method: http.MethodPost, path: "/api/chilaquiles", token: token, body: body})
	expectStatus(t, w, http.StatusOK)
	out := decodeObject(t, w)
	if out["ok"] != true {
		t.Fatalf("unexpected body: %v", out)
	}
	return uint(out["id"].(float64))
}

func TestDishes_CRUD(t *testing.T) {
	for _, driver := range []string{config.DriverORM, config.DriverSQL} {
		t.Run(driver, func(t *testing.T) {
			s := newTestServer(t, withDriver(driver))
			token := s.tokenFor(s.seedUser("ana", "x", role.User))

			id := createDish(t, s, token, map[string]interface{}{
				"name": "Verdes", "salsaType": "verde", "protein": "pollo", "spiciness": "3", "price": "85.50",
			})
			createDish(t, s, token, map[string]interface{}{
				"name": "Rojos", "salsaType": "roja", "protein": "res", "spiciness": 2, "price": 99,
			})
			createDish(t, s, token, map[string]interface{}{
				"name": "Sin número", "salsaType": "verde", "protein": "huevo", "spiciness": "mucho", "price": "caro",
			})

			w := s.do(request{method: http.MethodGet, path: fmt.Sprintf("/api/chilaquiles/%d", id), token: token})
			expectStatus(t, w, http.StatusOK)
			dish := decodeObject(t, w)
			if dish["name"] != "Verdes" || dish["salsaType"] != "verde" || dish["spiciness"] != float64(3) ||
				dish["price"] != 85.5 || dish["isActive"] != true || dish["createdAt"] == "" {
				t.Fatalf("unexpected dish: %v", dish)
			}
			if _, ok := dish["imageUrl"]; ok {
				t.Fatalf("imageUrl must be omitted without image: %v", dish)
			}

			w = s.do(request{method: http.MethodGet, path: "/api/chilaquiles?salsaType=verde", token: token})
			expectStatus(t, w, http.StatusOK)
			if got := w.Header().Get("X-Total-Count"); got != "2" {
				t.Fatalf("X-Total-Count = %q", got)
			}
			list := decodeArray(t, w)
			if len(list) != 2 || list[1]["spiciness"] != float64(0) || list[1]["price"] != float64(0) {
				t.Fatalf("unexpected list: %v", list)
			}

			w = s.do(request{method: http.MethodPut, path: fmt.Sprintf("/api/chilaquiles/%d", id), token: token,
				body: map[string]interface{}{"name": "Verdes especiales", "salsaType": "verde", "protein": "pollo", "spiciness": 4, "price": 90}})
			expectStatus(t, w, http.StatusOK)
			// те же значения повторно
			w = s.do(request{method: http.MethodPut, path: fmt.Sprintf("/api/chilaquiles/%d", id), token: token,
				body: map[string]interface{}{"name": "Verdes especiales", "salsaType": "verde", "protein": "pollo", "spiciness": 4, "price": 90}})
			expectStatus(t, w, http.StatusOK)

			w = s.do(request{method: http.MethodPut, path: "/api/chilaquiles/9999", token: token,
				body: map[string]interface{}{"name": "X", "salsaType": "verde", "protein": "pollo"}})
			expectFail(t, w, http.StatusNotFound, "")

			w = s.do(request{method: http.MethodDelete, path: fmt.Sprintf("/api/chilaquiles/%d", id), token: token})
			expectStatus(t, w, http.StatusOK)

			w = s.do(request{method: http.MethodGet, path: "/api/chilaquiles", token: token})
			if w.Header().Get("X-Total-Count") != "2" {
				t.Fatalf("inactive dish counted: %s", w.Header().Get("X-Total-Count"))
			}
			w = s.do(request{method: http.MethodGet, path: "/api/chilaquiles?includeInactive=true", token: token})
			if w.Header().Get("X-Total-Count") != "3" {
				t.Fatalf("includeInactive total: %s", w.Header().Get("X-Total-Count"))
			}

			// неактивное блюдо доступно по id
			w = s.do(request{method: http.MethodGet, path: fmt.Sprintf("/api/chilaquiles/%d", id), token: token})
			expectStatus(t, w, http.StatusOK)
			if decodeObject(t, w)["isActive"] != false {
				t.Fatalf("dish must be inactive")
			}

			w = s.do(request{method: http.MethodPost, path: fmt.Sprintf("/api/chilaquiles/%d/restore", id), token: token})
			expectStatus(t, w, http.StatusOK)

			w = s.do(request{method: http.MethodDelete, path: "/api/chilaquiles/9999", token: token})
			expectFail(t, w, http.StatusNotFound, "")
			w = s.do(request{method: http.MethodPost, path: "/api/chilaquiles/9999/restore", token: token})
			expectFail(t, w, http.StatusNotFound, "")
			w = s.do(request{method: http.MethodGet, path: "/api/chilaquiles/9999", token: token})
			expectFail(t, w, http.StatusNotFound, "")
		})
	}
}

func TestDishes_Validation(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(s.seedUser("ana", "x", role.User))

	for _, body := range []interface{}{
		map[string]interface{}{"name": "", "salsaType": "verde", "protein": "pollo"},
		map[string]interface{}{"name": "X", "salsaType": " ", "protein": "pollo"},
		map[string]interface{}{"name": "X", "salsaType": "verde"},
		"{",
	} {
		w := s.do(request{method: http.MethodPost, path: "/api/chilaquiles", token: token, body: body})
		expectFail(t, w, http.StatusBadRequest, "Campos requeridos")
	}

	for _, q := range []string{"page=x", "pageSize=1.5", "includeInactive=si"} {
		w := s.do(request{method: http.MethodGet, path: "/api/chilaquiles?" + q, token: token})
		expectFail(t, w, http.StatusBadRequest, "")
	}

	// нечисловой spiciness игнорируется
	w := s.do(request{method: http.MethodGet, path: "/api/chilaquiles?spiciness=muy", token: token})
	expectStatus(t, w, http.StatusOK)

	w = s.do(request{method: http.MethodGet, path: "/api/chilaquiles/abc", token: token})
	expectFail(t, w, http.StatusBadRequest, "")
}

func TestDishes_Pagination(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(s.seedUser("ana", "x", role.User))
	for i := 0; i < 12; i++ {
		createDish(t, s, token, map[string]interface{}{"name": fmt.Sprintf("Plato %d", i), "salsaType": "verde", "protein": "pollo"})
	}

	w := s.do(request{method: http.MethodGet, path: "/api/chilaquiles", token: token})
	if list := decodeArray(t, w); len(list) != 10 || w.Header().Get("X-Total-Count") != "12" {
		t.Fatalf("default page: %d items, total %s", len(list), w.Header().Get("X-Total-Count"))
	}

	w = s.do(request{method: http.MethodGet, path: "/api/chilaquiles?page=2&pageSize=5", token: token})
	list := decodeArray(t, w)
	if len(list) != 5 || list[0]["name"] != "Plato 5" {
		t.Fatalf("second page: %v", list)
	}

	w = s.do(request{method: http.MethodGet, path: "/api/chilaquiles?page=9", token: token})
	expectStatus(t, w, http.StatusOK)
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("page past the end must be an empty array: %s", w.Body.String())
	}

	// смещение не переполняется на огромных номерах страниц
	for _, q := range []string{"page=1152921504606846977&pageSize=16", "page=1844674407370955162&pageSize=10", "page=9223372036854775807"} {
		w = s.do(request{method: http.MethodGet, path: "/api/chilaquiles?" + q, token: token})
		expectStatus(t, w, http.StatusOK)
		if strings.TrimSpace(w.Body.String()) != "[]" {
			t.Fatalf("%s: expected empty page, got %s", q, w.Body.String())
		}
		if w.Header().Get("X-Total-Count") != "12" {
			t.Fatalf("%s: total %s", q, w.Header().Get("X-Total-Count"))
		}
	}
}

func TestDishes_AuthAndPublicCatalog(t *testing.T) {
	s := newTestServer(t)
	w := s.do(request{method: http.MethodGet, path: "/api/chilaquiles"})
	expectFail(t, w, http.StatusUnauthorized, "")

	s = newTestServer(t, withPublicCatalog())
	w = s.do(request{method: http.MethodGet, path: "/api/chilaquiles"})
	expectStatus(t, w, http.StatusOK)
	w = s.do(request{method: http.MethodPost, path: "/api/chilaquiles",
		body: map[string]interface{}{"name": "X", "salsaType": "verde", "protein": "pollo"}})
	expectFail(t, w, http.StatusUnauthorized, "")
}

func (s *testServer) uploadImage(token string, id uint, filename string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		s.t.Fatalf("form file: %v", err)
	}
	part.Write([]byte("fake image bytes"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/chilaquiles/%d/image", id), &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestDishes_ImageUpload(t *testing.T) {
	ctrl := gomock.NewController(t)
	images := mocks.NewMockImageStore(ctrl)
	s := newTestServer(t, withImages(images))
	token := s.tokenFor(s.seedUser("ana", "x", role.User))
	id := createDish(t, s, token, map[string]interface{}{"name": "Verdes", "salsaType": "verde", "protein": "pollo"})

	first := fmt.Sprintf("chilaquiles/%d/aaaa_foto.jpg", id)
	second := fmt.Sprintf("chilaquiles/%d/bbbb_otra.png", id)
	data := []byte("fake image bytes")

	gomock.InOrder(
		images.EXPECT().UploadFile(gomock.Any(), id, data, "foto.jpg").Return(first, nil),
		images.EXPECT().GetFileURL(gomock.Any(), first).Return("https://minio.test/"+first, nil),
		images.EXPECT().UploadFile(gomock.Any(), id, data, "otra.png").Return(second, nil),
		// старое изображение удаляется после записи нового ключа
		images.EXPECT().DeleteFile(gomock.Any(), first).Return(nil),
		images.EXPECT().GetFileURL(gomock.Any(), second).Return("https://minio.test/"+second, nil).Times(2),
		images.EXPECT().GetFileURL(gomock.Any(), second).Return("", errors.New("presign failed")),
	)

	w := s.uploadImage(token, id, "foto.jpg")
	expectStatus(t, w, http.StatusOK)
	if url := decodeObject(t, w)["imageUrl"]; url != "https://minio.test/"+first {
		t.Fatalf("imageUrl = %v", url)
	}

	w = s.uploadImage(token, id, "otra.png")
	expectStatus(t, w, http.StatusOK)

	w = s.do(request{method: http.MethodGet, path: fmt.Sprintf("/api/chilaquiles/%d", id), token: token})
	if url := decodeObject(t, w)["imageUrl"]; url != "https://minio.test/"+second {
		t.Fatalf("imageUrl after replace = %v", url)
	}

	// несуществующее блюдо: до хранилища дело не доходит
	w = s.uploadImage(token, 9999, "foto.jpg")
	expectFail(t, w, http.StatusNotFound, "")

	// ошибка presign не ломает ответ, просто нет imageUrl
	w = s.do(request{method: http.MethodGet, path: fmt.Sprintf("/api/chilaquiles/%d", id), token: token})
	expectStatus(t, w, http.StatusOK)
	if _, ok := decodeObject(t, w)["imageUrl"]; ok {
		t.Fatalf("imageUrl must be omitted when presign fails")
	}
}

func TestDishes_ImageUploadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	images := mocks.NewMockImageStore(ctrl)
	s := newTestServer(t, withImages(images))
	token := s.tokenFor(s.seedUser("ana", "x", role.User))
	id := createDish(t, s, token, map[string]interface{}{"name": "Verdes", "salsaType": "verde", "protein": "pollo"})

	images.EXPECT().UploadFile(gomock.Any(), id, gomock.Any(), "foto.jpg").Return("", errors.New("bucket unavailable"))

	w := s.uploadImage(token, id, "foto.jpg")
	expectFail(t, w, http.StatusInternalServerError, "")

	w = s.do(request{method: http.MethodGet, path: fmt.Sprintf("/api/chilaquiles/%d", id), token: token})
	if _, ok := decodeObject(t, w)["imageUrl"]; ok {
		t.Fatalf("image key must not be stored after a failed upload")
	}
}

func TestDishes_ImageUploadDisabled(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(s.seedUser("ana", "x", role.User))
	id := createDish(t, s, token, map[string]interface{}{"name": "Verdes", "salsaType": "verde", "protein": "pollo"})

	w := s.uploadImage(token, id, "foto.jpg")
	expectFail(t, w, http.StatusNotImplemented, "")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, withDriver(config.DriverSQL))
	w := s.do(request{method: http.MethodGet, path: "/api/health"})
	expectStatus(t, w, http.StatusOK)
	body := decodeObject(t, w)
	if body["status"] != "ok" || body["driver"] != "sql" || body["dialect"] != "sqlite" {
		t.Fatalf("unexpected health: %v", body)
	}

	if err := s.storage.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	w = s.do(request{method: http.MethodGet, path: "/api/health"})
	expectStatus(t, w, http.StatusServiceUnavailable)
	if decodeObject(t, w)["status"] != "down" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}
