package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kddeveloperhub/noteskart/internal/repository"
)

// UserDocument представляет документ в коллекции users
// Флаг is_paid может отсутствовать у старых документов — bson decode оставит false
type UserDocument struct {
	UserID    string    `bson:"user_id"`
	IsPaid    bool      `bson:"is_paid"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Repository реализует UserRepository используя MongoDB
type Repository struct {
	client *mongo.Client
	db     *mongo.Database
	col    *mongo.Collection
}

// NewRepository создаёт новый MongoDB репозиторий
// Создаёт уникальный индекс на user_id при инициализации
func NewRepository(client *mongo.Client, dbName string) *Repository {
	db := client.Database(dbName)
	col := db.Collection("users")

	// Уникальный индекс гарантирует один документ на пользователя
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Создаём индекс (если уже существует - игнорируем ошибку)
	_, _ = col.Indexes().CreateOne(ctx, indexModel)

	return &Repository{
		client: client,
		db:     db,
		col:    col,
	}
}

// GetByID получает пользователя из MongoDB
// Возвращает ErrUserNotFound, если документ отсутствует
// Отсутствие поля is_paid в документе читается как false, не как ошибка
func (r *Repository) GetByID(ctx context.Context, userID string) (repository.User, error) {
	var doc UserDocument
	err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.User{}, repository.ErrUserNotFound
		}
		return repository.User{}, err
	}

	return repository.User{
		ID:     doc.UserID,
		IsPaid: doc.IsPaid,
	}, nil
}

// SetPaid выставляет флаг is_paid атомарным upsert-ом
// Если документа нет — создаёт его: entitlement может прийти раньше,
// чем профиль пользователя появится в коллекции
func (r *Repository) SetPaid(ctx context.Context, userID string, isPaid bool) error {
	// user_id попадёт в новый документ из filter при upsert
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$set": bson.M{
			"is_paid":    isPaid,
			"updated_at": time.Now(),
		},
	}

	opts := options.Update().SetUpsert(true)

	_, err := r.col.UpdateOne(ctx, filter, update, opts)
	return err
}
