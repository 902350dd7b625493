package kafka

// Config содержит конфигурацию для подключения к Kafka
type Config struct {
	// Brokers — список брокеров Kafka.
	// Значение зависит от среды выполнения:
	//   - локальная разработка (go run): localhost:19092
	//   - запуск в Docker: kafka:9092
	// Можно указать несколько брокеров через запятую: "broker1:9092,broker2:9092"
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	// Topic — топик событий оплаты (publisher пишет, entitlement worker читает)
	Topic string `env:"KAFKA_TOPIC" envDefault:"payment.verified"`
	// GroupID — consumer group entitlement worker-а
	GroupID string `env:"KAFKA_GROUP_ID" envDefault:"entitlement-worker"`
}

// DefaultConfig возвращает конфигурацию с дефолтными значениями для локальной разработки.
// Актуальные значения приходят через переменные окружения (KAFKA_BROKERS, KAFKA_TOPIC, KAFKA_GROUP_ID).
func DefaultConfig() Config {
	return Config{
		Brokers: []string{"localhost:19092"},
		Topic:   "payment.verified",
		GroupID: "entitlement-worker",
	}
}
