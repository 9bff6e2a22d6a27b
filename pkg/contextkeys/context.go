package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// UserIDContextKey - ключ, по которому identity-middleware кладет ID пользователя в context
const UserIDContextKey = contextKey("user_id")
