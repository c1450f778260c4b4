package store

import (
	"testing"
)

const (
	KEY1   = "test-key"
	VALUE1 = "TESTING123"
	VALUE2 = "TESTING234"
)

func TestSet(t *testing.T) {
	memStore := NewMemStore()

	err := memStore.Set(KEY1, VALUE1)
	if err != nil {
		t.Error(err, "could not set key")
	}

	err = memStore.Set(KEY1, VALUE2)
	if err != ErrKeyExists {
		t.Error("did not return the key exists error")
	}
}

func TestGet(t *testing.T) {
	memStore := NewMemStore()

	err := memStore.Set(KEY1, VALUE1)
	if err != nil {
		t.Error(err, "could not set key")
	}

	val, err := memStore.Get(KEY1)
	if err != nil {
		t.Error(err)
	}
	if val.(string) != VALUE1 {
		t.Errorf("retrieved value not the same, expected %s got %s", VALUE1, val.(string))
	}
}

func TestGetNonExistingKey(t *testing.T) {
	memStore := NewMemStore()

	_, err := memStore.Get("12345")
	if err != ErrKeyDoesntExist {
		t.Error("did not return key doesn't exist error")
	}
}

func TestStoresAreIndependent(t *testing.T) {
	first := NewMemStore()
	second := NewMemStore()

	if err := first.Set(KEY1, VALUE1); err != nil {
		t.Error(err, "could not set key")
	}
	if _, err := second.Get(KEY1); err != ErrKeyDoesntExist {
		t.Error("a new store must not see another run's entries")
	}
}
