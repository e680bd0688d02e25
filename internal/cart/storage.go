package cart

import "context"

// Storage — порт key-value хранилища для персистентности корзины.
// Реализация обязана возвращать found=false при отсутствии ключа,
// а не ошибку.
type Storage interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}

// NoopStorage — заглушка для окружений без персистентного хранилища:
// чтение всегда промах, запись и удаление ничего не делают.
type NoopStorage struct{}

func NewNoopStorage() NoopStorage { return NoopStorage{} }

func (NoopStorage) Get(_ context.Context, _ string) (string, bool, error) { return "", false, nil }

func (NoopStorage) Set(_ context.Context, _ string, _ string) error { return nil }

func (NoopStorage) Remove(_ context.Context, _ string) error { return nil }
