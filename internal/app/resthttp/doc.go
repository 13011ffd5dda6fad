// Package resthttp реализует HTTP-интерфейс сервиса файлов: создание записи,
// дозаливку кусками с докручиванием дайджеста и выдачу содержимого по Range.
// Основные эндпоинты:
//   - POST /files — создаёт запись, возвращает проекцию с id и uri.
//   - POST|PUT /files/{id}/upload?offset=N[&finalize] — дописывает кусок; offset обязан совпадать с текущим размером.
//   - GET /files/{id}[/{name}] — отдаёт содержимое целиком или одним диапазоном (206 + Content-Range).
//   - GET /files/{id}/meta — проекция метаданных.
//   - GET /files — листинг всех записей (best-effort).
//   - POST /admin/gc — «ручной» запуск очистки брошенных загрузок.
//   - GET /health — агрегированные метрики по каталогу данных.
package resthttp
