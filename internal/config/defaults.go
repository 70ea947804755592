package config

// Built-in environment mapping. Vietnamese books customarily define
// ASCII-named theorem environments; the English set covers amsthm
// conventions. Labels here are the neutral ASCII forms; the vi
// language swaps in the diacritic forms from viLabels.
var defaultEnvironments = map[string]Environment{
	"dinhly":           {CSS: "env-theorem", Label: "Dinh ly"},
	"bode":             {CSS: "env-theorem", Label: "Bo de"},
	"menhde":           {CSS: "env-theorem", Label: "Menh de"},
	"hequa":            {CSS: "env-theorem", Label: "He qua"},
	"dinhri":           {CSS: "env-theorem", Label: "Dinh ly"},
	"giaithiet":        {CSS: "env-theorem", Label: "Gia thiet"},
	"phongdoan":        {CSS: "env-theorem", Label: "Phong doan"},
	"vidu":             {CSS: "env-example", Label: "Vi du"},
	"baitap":           {CSS: "env-example", Label: "Bai tap"},
	"trucgiac":         {CSS: "box-green", Label: "Truc giac"},
	"chungminhsocap":   {CSS: "env-proof", Label: "Chung minh"},
	"chungminhnangcao": {CSS: "box-yellow", Label: "Chung minh (nang cao)"},
	"phachoa":          {CSS: "box-red", Label: "Phac hoa"},
	"giaithoai":        {CSS: "box-purple", Label: "Giai thoai"},
	"luuy":             {CSS: "box-yellow", Label: "Luu y"},
	"tomtat":           {CSS: "box-gray", Label: "Tom tat"},
	"thuatngu":         {CSS: "box-teal", Label: "Thuat ngu"},

	"theorem":     {CSS: "env-theorem", Label: "Theorem"},
	"lemma":       {CSS: "env-theorem", Label: "Lemma"},
	"proposition": {CSS: "env-theorem", Label: "Proposition"},
	"corollary":   {CSS: "env-theorem", Label: "Corollary"},
	"definition":  {CSS: "env-theorem", Label: "Definition"},
	"conjecture":  {CSS: "env-theorem", Label: "Conjecture"},
	"example":     {CSS: "env-example", Label: "Example"},
	"exercise":    {CSS: "env-example", Label: "Exercise"},
	"remark":      {CSS: "box-yellow", Label: "Remark"},
	"note":        {CSS: "box-yellow", Label: "Note"},
}

// Vietnamese labels with full diacritics, applied when language is vi.
var viLabels = map[string]string{
	"dinhly":           "Định lý",
	"bode":             "Bổ đề",
	"menhde":           "Mệnh đề",
	"hequa":            "Hệ quả",
	"dinhri":           "Định lý",
	"giaithiet":        "Giả thiết",
	"phongdoan":        "Phỏng đoán",
	"vidu":             "Ví dụ",
	"baitap":           "Bài tập",
	"trucgiac":         "Trực giác",
	"chungminhsocap":   "Chứng minh",
	"chungminhnangcao": "Chứng minh (nâng cao)",
	"phachoa":          "Phác họa",
	"giaithoai":        "Giai thoại",
	"luuy":             "Lưu ý",
	"tomtat":           "Tóm tắt",
	"thuatngu":         "Thuật ngữ",
}

// Section titles matching any of these mark exercise sections, which
// are skipped during card extraction.
var defaultExerciseKeywords = []string{
	"Bai tap", "bai tap",
	"Bài tập", "bài tập",
	"Exercise", "exercise", "Exercises", "exercises",
}

// Difficulty badge colors, two levels per color band.
var defaultDiffColors = map[int]string{
	1: "#48bb78", 2: "#48bb78",
	3: "#4299e1", 4: "#4299e1",
	5: "#ed8936", 6: "#ed8936",
	7: "#e53e3e", 8: "#e53e3e",
	9: "#805ad5", 10: "#805ad5",
}
