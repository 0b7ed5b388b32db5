// Package irfmt prints a parsed module back to textual IR.
//
// Назначение: каноническая печать ir.Module (типы, глобалы, функции, метаданные).
// Не делает: сохранения исходных комментариев и пробелов.
// Зависимости: internal/ir, internal/types, internal/metadata.
//
// Печать разобранного модуля и повторный разбор её результата дают тот же текст.
package irfmt
