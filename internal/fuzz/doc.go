// Package fuzztests houses Go fuzz harnesses for the llvet front end
// (source -> lexer -> parser -> verifier). They guard against panics,
// hangs and structural corruption of the IR on arbitrary inputs.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер,
// парсер, проверки testkit и верификатор.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser,
// internal/verify, internal/irfmt, internal/testkit.
package fuzztests
