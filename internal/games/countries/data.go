package countries

// Country is one row of the static content table the guessing games draw
// from. The table is data, not logic; extend freely.
type Country struct {
	Code    string
	Name    string
	Capital string
	Flag    string
}

var table = []Country{
	{"ar", "Argentina", "Buenos Aires", "🇦🇷"},
	{"au", "Australia", "Canberra", "🇦🇺"},
	{"at", "Austria", "Vienna", "🇦🇹"},
	{"be", "Belgium", "Brussels", "🇧🇪"},
	{"br", "Brazil", "Brasília", "🇧🇷"},
	{"ca", "Canada", "Ottawa", "🇨🇦"},
	{"cl", "Chile", "Santiago", "🇨🇱"},
	{"cn", "China", "Beijing", "🇨🇳"},
	{"co", "Colombia", "Bogotá", "🇨🇴"},
	{"hr", "Croatia", "Zagreb", "🇭🇷"},
	{"cz", "Czech Republic", "Prague", "🇨🇿"},
	{"dk", "Denmark", "Copenhagen", "🇩🇰"},
	{"eg", "Egypt", "Cairo", "🇪🇬"},
	{"fi", "Finland", "Helsinki", "🇫🇮"},
	{"fr", "France", "Paris", "🇫🇷"},
	{"de", "Germany", "Berlin", "🇩🇪"},
	{"gr", "Greece", "Athens", "🇬🇷"},
	{"hu", "Hungary", "Budapest", "🇭🇺"},
	{"is", "Iceland", "Reykjavík", "🇮🇸"},
	{"in", "India", "New Delhi", "🇮🇳"},
	{"id", "Indonesia", "Jakarta", "🇮🇩"},
	{"ie", "Ireland", "Dublin", "🇮🇪"},
	{"il", "Israel", "Jerusalem", "🇮🇱"},
	{"it", "Italy", "Rome", "🇮🇹"},
	{"jp", "Japan", "Tokyo", "🇯🇵"},
	{"ke", "Kenya", "Nairobi", "🇰🇪"},
	{"mx", "Mexico", "Mexico City", "🇲🇽"},
	{"ma", "Morocco", "Rabat", "🇲🇦"},
	{"nl", "Netherlands", "Amsterdam", "🇳🇱"},
	{"nz", "New Zealand", "Wellington", "🇳🇿"},
	{"ng", "Nigeria", "Abuja", "🇳🇬"},
	{"no", "Norway", "Oslo", "🇳🇴"},
	{"pe", "Peru", "Lima", "🇵🇪"},
	{"ph", "Philippines", "Manila", "🇵🇭"},
	{"pl", "Poland", "Warsaw", "🇵🇱"},
	{"pt", "Portugal", "Lisbon", "🇵🇹"},
	{"ro", "Romania", "Bucharest", "🇷🇴"},
	{"ru", "Russia", "Moscow", "🇷🇺"},
	{"sa", "Saudi Arabia", "Riyadh", "🇸🇦"},
	{"za", "South Africa", "Pretoria", "🇿🇦"},
	{"kr", "South Korea", "Seoul", "🇰🇷"},
	{"es", "Spain", "Madrid", "🇪🇸"},
	{"se", "Sweden", "Stockholm", "🇸🇪"},
	{"ch", "Switzerland", "Bern", "🇨🇭"},
	{"th", "Thailand", "Bangkok", "🇹🇭"},
	{"tr", "Turkey", "Ankara", "🇹🇷"},
	{"ua", "Ukraine", "Kyiv", "🇺🇦"},
	{"gb", "United Kingdom", "London", "🇬🇧"},
	{"us", "United States", "Washington", "🇺🇸"},
	{"vn", "Vietnam", "Hanoi", "🇻🇳"},
}

// Table returns the full country table.
func Table() []Country { return table }
