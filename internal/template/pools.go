package template

var profiles = []string{
	"retail customer, low transaction volume",
	"retail customer, frequent international transfers",
	"small business owner, daily payroll activity",
	"corporate treasury account",
	"student account, sporadic activity",
	"pensioner, recurring utility payments",
	"freelancer, irregular invoice income",
	"high-net-worth individual, private banking",
}

var activities = []string{
	"wire transfer to a new beneficiary",
	"recurring bill payment",
	"cash withdrawal above daily average",
	"card-not-present purchase",
	"international remittance",
	"loan installment payment",
	"standing order amendment",
	"bulk salary payment",
}

var senderNames = []string{
	"Arthur Benson", "Mariana Costa", "Deniz Yilmaz", "Priya Raghavan",
	"Oleg Petrov", "Fatima Al-Sayed", "Jonas Lindqvist", "Grace Okafor",
}

var receiverNames = []string{
	"Henrik Solberg", "Amelia Hartley", "Kenji Nakamura", "Lucia Moreno",
	"Tomasz Kowalski", "Nadia Belhaj", "Samuel Mensah", "Ingrid Vogel",
}

var comments = []string{
	"invoice settlement", "monthly rent", "gift", "consulting fee",
	"loan repayment", "family support", "subscription renewal", "deposit",
}

var activityCodes = []string{
	"TRF-001", "TRF-014", "PMT-102", "PMT-230", "WDR-050", "FX-310", "INV-077", "STO-009",
}

var channels = []string{"mobile", "web", "branch", "api"}

var bankCodes = []string{
	"NDEAFIHH", "HANDFIHH", "DABAFIHX", "OKOYFIHH", "SBANFIHH", "AABAFI22",
}
