package service

import (
	"errors"
	"testing"

	"github.com/minishop/internal/models"
)

func TestAddItemAccumulatesQuantity(t *testing.T) {
	db := newTestDB(t, "cart_accumulate")
	user := mustCreateUser(t, db, "buyer", "buyer@example.com")
	product := mustCreateProduct(t, db, "商品", "10.00", 5)
	svc := newCartServiceForDB(db)

	if err := svc.AddItem(user.ID, product.ID, 2); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := svc.AddItem(user.ID, product.ID, 1); err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	detail, err := svc.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(detail.Items) != 1 {
		t.Fatalf("same product should merge into one item, got %d", len(detail.Items))
	}
	if detail.Items[0].Quantity != 3 {
		t.Fatalf("quantity want 3 got %d", detail.Items[0].Quantity)
	}
	if detail.Total.String() != "30.00" {
		t.Fatalf("total want 30.00 got %s", detail.Total.String())
	}
}

func TestAddItemRejectsOverStock(t *testing.T) {
	db := newTestDB(t, "cart_over_stock")
	user := mustCreateUser(t, db, "buyer", "buyer@example.com")
	product := mustCreateProduct(t, db, "商品", "10.00", 3)
	svc := newCartServiceForDB(db)

	if err := svc.AddItem(user.ID, product.ID, 4); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("want ErrOutOfStock got %v", err)
	}
	if err := svc.AddItem(user.ID, product.ID, 2); err != nil {
		t.Fatalf("add within stock failed: %v", err)
	}
	// 已有 2 件，再加 2 件超过库存
	if err := svc.AddItem(user.ID, product.ID, 2); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("accumulated quantity should be capped by stock, got %v", err)
	}
}

func TestAddItemValidation(t *testing.T) {
	db := newTestDB(t, "cart_validation")
	user := mustCreateUser(t, db, "buyer", "buyer@example.com")
	product := mustCreateProduct(t, db, "商品", "10.00", 3)
	svc := newCartServiceForDB(db)

	if err := svc.AddItem(user.ID, product.ID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("want ErrInvalidQuantity got %v", err)
	}
	if err := svc.AddItem(user.ID, product.ID+100, 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}
}

func TestUpdateQuantityZeroRemovesItem(t *testing.T) {
	db := newTestDB(t, "cart_update_zero")
	user := mustCreateUser(t, db, "buyer", "buyer@example.com")
	product := mustCreateProduct(t, db, "商品", "10.00", 5)
	svc := newCartServiceForDB(db)

	if err := svc.AddItem(user.ID, product.ID, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	var item models.CartItem
	if err := db.Where("user_id = ?", user.ID).First(&item).Error; err != nil {
		t.Fatalf("load cart item failed: %v", err)
	}

	if err := svc.UpdateQuantity(user.ID, item.ID, 0); err != nil {
		t.Fatalf("update to zero failed: %v", err)
	}

	detail, err := svc.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(detail.Items) != 0 {
		t.Fatalf("item should be removed, got %d items", len(detail.Items))
	}
}

func TestCartOwnershipEnforced(t *testing.T) {
	db := newTestDB(t, "cart_ownership")
	owner := mustCreateUser(t, db, "owner", "owner@example.com")
	intruder := mustCreateUser(t, db, "intruder", "intruder@example.com")
	product := mustCreateProduct(t, db, "商品", "10.00", 5)
	svc := newCartServiceForDB(db)

	if err := svc.AddItem(owner.ID, product.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	var item models.CartItem
	if err := db.Where("user_id = ?", owner.ID).First(&item).Error; err != nil {
		t.Fatalf("load cart item failed: %v", err)
	}

	if err := svc.UpdateQuantity(intruder.ID, item.ID, 2); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("foreign update should fail with ErrCartItemNotFound, got %v", err)
	}
	if err := svc.RemoveItem(intruder.ID, item.ID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("foreign removal should fail with ErrCartItemNotFound, got %v", err)
	}
}
