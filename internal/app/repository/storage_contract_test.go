package repository_test

import (
	"context"
	"errors"
	"testing"

	"chilaquiles/internal/app/ds"
	"chilaquiles/internal/app/repository"
	"chilaquiles/internal/app/role"
	"chilaquiles/internal/testutil"
)

func seedDishes(t *testing.T, s repository.Storage) []uint {
	t.Helper()
	ctx := context.Background()
	dishes := []ds.Dish{
		{Name: "Verdes clásicos", SalsaType: "verde", Protein: "pollo", Spiciness: 2, Price: 85.5},
		{Name: "Rojos con res", SalsaType: "roja", Protein: "res", Spiciness: 3, Price: 99},
		{Name: "Verdes con huevo", SalsaType: "verde", Protein: "huevo", Spiciness: 1, Price: 70},
		{Name: "Divorciados", SalsaType: "mixta", Protein: "pollo", Spiciness: 2, Price: 95},
	}
	ids := make([]uint, 0, len(dishes))
	for i := range dishes {
		if err := s.CreateDish(ctx, &dishes[i]); err != nil {
			t.Fatalf("create dish: %v", err)
		}
		if dishes[i].ID == 0 {
			t.Fatalf("dish id not assigned")
		}
		ids = append(ids, dishes[i].ID)
	}
	return ids
}

func TestStorage_Users(t *testing.T) {
	for driver, s := range testutil.Storages(t, "users_contract") {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()

			exists, err := s.UserExistsByUsername(ctx, "ana")
			if err != nil || exists {
				t.Fatalf("exists before create: %v %v", exists, err)
			}

			u := &ds.User{FullName: "Ana López", Username: "ana", PasswordHash: "h"}
			if err := s.CreateUser(ctx, u); err != nil {
				t.Fatalf("create: %v", err)
			}
			if u.ID == 0 || u.Role != role.User || !u.IsActive {
				t.Fatalf("unexpected created user: %+v", u)
			}

			dup := &ds.User{FullName: "Otra", Username: "ana", PasswordHash: "h"}
			if err := s.CreateUser(ctx, dup); !errors.Is(err, repository.ErrDuplicate) {
				t.Fatalf("duplicate username: got %v", err)
			}

			got, err := s.GetUserByUsername(ctx, "ana")
			if err != nil || got.ID != u.ID || got.FullName != "Ana López" {
				t.Fatalf("get by username: %+v %v", got, err)
			}
			if _, err := s.GetUserByID(ctx, 9999); !errors.Is(err, repository.ErrNotFound) {
				t.Fatalf("missing user: got %v", err)
			}

			name := "Ana María"
			if err := s.UpdateUser(ctx, u.ID, ds.UserUpdate{Role: "ADMIN", FullName: &name}); err != nil {
				t.Fatalf("update: %v", err)
			}
			got, _ = s.GetUserByID(ctx, u.ID)
			if got.Role != role.Admin || got.FullName != name || got.Username != "ana" {
				t.Fatalf("update not applied: %+v", got)
			}

			// неизвестная роль превращается в user
			if err := s.UpdateUser(ctx, u.ID, ds.UserUpdate{Role: "owner"}); err != nil {
				t.Fatalf("update role: %v", err)
			}
			got, _ = s.GetUserByID(ctx, u.ID)
			if got.Role != role.User {
				t.Fatalf("role = %q", got.Role)
			}

			if err := s.UpdateUser(ctx, 9999, ds.UserUpdate{Role: role.User}); !errors.Is(err, repository.ErrNotFound) {
				t.Fatalf("update missing: got %v", err)
			}

			if err := s.UpdatePasswordHash(ctx, u.ID, "h2"); err != nil {
				t.Fatalf("update hash: %v", err)
			}

			if err := s.SetUserActive(ctx, u.ID, false); err != nil {
				t.Fatalf("deactivate: %v", err)
			}
			active, _ := s.ListUsers(ctx, false)
			all, _ := s.ListUsers(ctx, true)
			if len(active) != 0 || len(all) != 1 || all[0].IsActive || all[0].PasswordHash != "h2" {
				t.Fatalf("list after deactivate: active=%v all=%v", active, all)
			}
		})
	}
}

func TestStorage_Dishes(t *testing.T) {
	for driver, s := range testutil.Storages(t, "dishes_contract") {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			ids := seedDishes(t, s)

			list, total, err := s.ListDishes(ctx, repository.DishFilter{})
			if err != nil || total != 4 || len(list) != 4 {
				t.Fatalf("list all: %d %d %v", len(list), total, err)
			}
			for i := 1; i < len(list); i++ {
				if list[i-1].ID >= list[i].ID {
					t.Fatalf("list not ordered by id")
				}
			}

			list, total, _ = s.ListDishes(ctx, repository.DishFilter{SalsaType: "verde"})
			if total != 2 || len(list) != 2 {
				t.Fatalf("filter salsa: %d %d", len(list), total)
			}

			two := 2
			list, total, _ = s.ListDishes(ctx, repository.DishFilter{Protein: "pollo", Spiciness: &two})
			if total != 2 || len(list) != 2 {
				t.Fatalf("filter protein+spiciness: %d %d", len(list), total)
			}

			list, total, _ = s.ListDishes(ctx, repository.DishFilter{Page: 2, PageSize: 3})
			if total != 4 || len(list) != 1 || list[0].ID != ids[3] {
				t.Fatalf("second page: %+v total=%d", list, total)
			}

			list, total, _ = s.ListDishes(ctx, repository.DishFilter{Page: 5, PageSize: 3})
			if total != 4 || len(list) != 0 {
				t.Fatalf("page past end: %d %d", len(list), total)
			}

			d, err := s.GetDish(ctx, ids[0])
			if err != nil || d.Price != 85.5 || d.CreatedAt.IsZero() || d.ImageKey != nil {
				t.Fatalf("get: %+v %v", d, err)
			}

			d.Name = "Verdes especiales"
			d.Spiciness = 4
			if err := s.UpdateDish(ctx, d); err != nil {
				t.Fatalf("update: %v", err)
			}
			// повторное обновление теми же значениями не считается «не найдено»
			if err := s.UpdateDish(ctx, d); err != nil {
				t.Fatalf("idempotent update: %v", err)
			}
			if err := s.UpdateDish(ctx, &ds.Dish{ID: 9999, Name: "x"}); !errors.Is(err, repository.ErrNotFound) {
				t.Fatalf("update missing: %v", err)
			}

			if err := s.SetDishActive(ctx, ids[1], false); err != nil {
				t.Fatalf("deactivate: %v", err)
			}
			_, total, _ = s.ListDishes(ctx, repository.DishFilter{})
			if total != 3 {
				t.Fatalf("inactive still listed: %d", total)
			}
			_, total, _ = s.ListDishes(ctx, repository.DishFilter{IncludeInactive: true})
			if total != 4 {
				t.Fatalf("includeInactive: %d", total)
			}
			inactive, err := s.GetDish(ctx, ids[1])
			if err != nil || inactive.IsActive {
				t.Fatalf("get inactive: %+v %v", inactive, err)
			}
			if err := s.SetDishActive(ctx, 9999, true); !errors.Is(err, repository.ErrNotFound) {
				t.Fatalf("restore missing: %v", err)
			}

			key := "chilaquiles/1/photo.jpg"
			if err := s.SetDishImage(ctx, ids[0], &key); err != nil {
				t.Fatalf("set image: %v", err)
			}
			d, _ = s.GetDish(ctx, ids[0])
			if d.ImageKey == nil || *d.ImageKey != key {
				t.Fatalf("image key = %v", d.ImageKey)
			}
			if err := s.SetDishImage(ctx, ids[0], nil); err != nil {
				t.Fatalf("clear image: %v", err)
			}
			d, _ = s.GetDish(ctx, ids[0])
			if d.ImageKey != nil {
				t.Fatalf("image key not cleared")
			}
		})
	}
}

func TestStorage_PingAndDriver(t *testing.T) {
	for driver, s := range testutil.Storages(t, "ping_contract") {
		if err := s.Ping(context.Background()); err != nil {
			t.Fatalf("%s ping: %v", driver, err)
		}
		if s.Driver() != driver {
			t.Fatalf("driver = %s, want %s", s.Driver(), driver)
		}
	}
}
