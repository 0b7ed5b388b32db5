package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexBadEscape          Code = 1004
	LexTokenTooLong       Code = 1005
	LexEmptyName          Code = 1006
	LexNonNormalizedName  Code = 1007

	// Синтаксические
	SynInfo                Code = 2000
	SynUnexpectedToken     Code = 2001
	SynExpectType          Code = 2002
	SynExpectValue         Code = 2003
	SynUnknownOpcode       Code = 2004
	SynBadLiteral          Code = 2005
	SynMissingExpectedType Code = 2006
	SynNumberOutOfOrder    Code = 2007
	SynInvalidType         Code = 2008
	SynBadAttribute        Code = 2009
	SynLimitExceeded       Code = 2010
	SynUnexpectedTopLevel  Code = 2011
	SynOperandTypeMismatch Code = 2012

	// Разрешение имён
	ResInfo             Code = 3000
	ResUndefinedValue   Code = 3001
	ResRedefinition     Code = 3002
	ResUseBeforeDef     Code = 3003
	ResUndefinedType    Code = 3004
	ResForwardRefType   Code = 3005
	ResUndefinedBlock   Code = 3006
	ResUndefinedGlobal  Code = 3007
	ResUndefinedAttrGrp Code = 3008
	ResUndefinedMD      Code = 3009
	ResTypeRedefinition Code = 3010
	ResRecursiveType    Code = 3011

	// Верификатор
	VerInfo               Code = 4000
	VerTypeMismatch       Code = 4001
	VerMissingTerminator  Code = 4002
	VerIllegalStructure   Code = 4003
	VerIllegalAttribute   Code = 4004
	VerIllegalControlFlow Code = 4005
	VerIllegalMetadata    Code = 4006
	VerIllegalUse         Code = 4007
	VerInternal           Code = 4099

	// I/O
	IOLoadFileError Code = 5001
	IOReadDirError  Code = 5002
	IOCacheError    Code = 5003
	IOConfigError   Code = 5004

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		LexInfo:                "Lexical information",
		LexUnknownChar:         "Unknown character",
		LexUnterminatedString:  "Unterminated string literal",
		LexBadNumber:           "Malformed numeric literal",
		LexBadEscape:           "Malformed escape sequence",
		LexTokenTooLong:        "Token exceeds maximum length",
		LexEmptyName:           "Empty name after sigil",
		LexNonNormalizedName:   "Quoted name is not in Unicode NFC",
		SynInfo:                "Syntax information",
		SynUnexpectedToken:     "Unexpected token",
		SynExpectType:          "Expected type",
		SynExpectValue:         "Expected value",
		SynUnknownOpcode:       "Unknown instruction opcode",
		SynBadLiteral:          "Literal does not fit its type",
		SynMissingExpectedType: "Value constructed without expected type",
		SynNumberOutOfOrder:    "Unnamed value number out of sequence",
		SynInvalidType:         "Invalid type construction",
		SynBadAttribute:        "Malformed attribute",
		SynLimitExceeded:       "Parser exceeded limits",
		SynUnexpectedTopLevel:  "Unexpected top-level entity",
		SynOperandTypeMismatch: "Operand does not have the written type",
		ResInfo:                "Resolution information",
		ResUndefinedValue:      "Use of undefined value",
		ResRedefinition:        "Redefinition of value",
		ResUseBeforeDef:        "Value used before its definition",
		ResUndefinedType:       "Use of undefined named type",
		ResForwardRefType:      "Forward reference has a different type than its definition",
		ResUndefinedBlock:      "Use of undefined basic block",
		ResUndefinedGlobal:     "Use of undefined global",
		ResUndefinedAttrGrp:    "Use of undefined attribute group",
		ResUndefinedMD:         "Use of undefined metadata",
		ResTypeRedefinition:    "Redefinition of named type",
		ResRecursiveType:       "Named type contains itself",
		VerInfo:                "Verifier information",
		VerTypeMismatch:        "Type mismatch",
		VerMissingTerminator:   "Missing or misplaced terminator",
		VerIllegalStructure:    "Illegal structure",
		VerIllegalAttribute:    "Illegal attribute",
		VerIllegalControlFlow:  "Illegal control flow",
		VerIllegalMetadata:     "Illegal metadata",
		VerIllegalUse:          "Illegal use of value",
		VerInternal:            "Verifier internal defect",
		IOLoadFileError:        "I/O load file error",
		IOReadDirError:         "I/O read directory error",
		IOCacheError:           "Cache error",
		IOConfigError:          "Configuration error",
		ObsInfo:                "Observability information",
		ObsTimings:             "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("VER%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
