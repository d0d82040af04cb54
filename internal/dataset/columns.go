package dataset

// Survey fields referenced by the analysis questions.
const (
	ColMainBranch   = "MainBranch"
	ColEdLevel      = "EdLevel"
	ColDevType      = "DevType"
	ColCountry      = "Country"
	ColYearsCode    = "YearsCode"
	ColYearsCodePro = "YearsCodePro"
	ColCompensation = "ConvertedCompYearly"
	ColOrgSize      = "OrgSize"

	// Optional fields; questions using them degrade when absent.
	ColLanguages = "LanguageHaveWorkedWith"
	ColOpSys     = "OpSys"
	ColAge       = "Age"
)

// RequiredColumns lists the fields every snapshot must carry.
var RequiredColumns = []string{
	ColMainBranch, ColEdLevel, ColDevType, ColCountry,
	ColYearsCode, ColYearsCodePro, ColCompensation, ColOrgSize,
}

// MultiValueSep separates multiple answers inside one survey cell.
const MultiValueSep = ";"

// SimplifiedColumn names the derived column holding canonical labels of col.
func SimplifiedColumn(col string) string { return col + "Simplified" }
