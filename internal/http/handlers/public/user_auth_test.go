package public

import (
	"testing"
	"time"

	"github.com/minishop/internal/models"
)

func TestBuildUserViewIncludesContactFields(t *testing.T) {
	phone := "13800138000"
	address := "北京市朝阳区望京街 1 号"
	now := time.Now()
	user := &models.User{
		ID:          7,
		Username:    "alice",
		Email:       "alice@example.com",
		Phone:       &phone,
		Address:     &address,
		IsAdmin:     false,
		LastLoginAt: &now,
	}

	view := buildUserView(user)
	if view.ID != 7 || view.Username != "alice" || view.Email != "alice@example.com" {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view.Phone == nil || *view.Phone != phone {
		t.Fatalf("phone should pass through, got %v", view.Phone)
	}
	if view.Address == nil || *view.Address != address {
		t.Fatalf("address should pass through, got %v", view.Address)
	}

	// 未填写联系方式时保持为空而不是空字符串
	bare := buildUserView(&models.User{Username: "bob", Email: "bob@example.com"})
	if bare.Phone != nil || bare.Address != nil {
		t.Fatalf("optional contact fields should stay nil, got %+v", bare)
	}
}
