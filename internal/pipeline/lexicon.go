package pipeline

// DefaultLexicon returns the built-in reference data: common Brazilian and
// Portuguese first names plus the domains of public webmail providers used
// by the target audience. Callers with other locales supply their own.
func DefaultLexicon() Lexicon {
	return Lexicon{
		FirstNames:     commonFirstNames,
		GenericDomains: genericDomains,
	}
}

// genericDomains are matched by suffix, so gmail.com also covers
// sub-branded hosts.
var genericDomains = []string{
	"gmail.com",
	"yahoo.com",
	"yahoo.com.br",
	"hotmail.com",
	"hotmail.com.br",
	"outlook.com",
	"outlook.com.br",
	"live.com",
	"msn.com",
	"aol.com",
	"icloud.com",
	"me.com",
	"bol.com.br",
	"uol.com.br",
	"terra.com.br",
	"ig.com.br",
	"globo.com",
	"globomail.com",
	"oi.com.br",
	"r7.com",
	"zipmail.com.br",
	"protonmail.com",
	"proton.me",
	"zoho.com",
	"gmx.com",
	"gmx.net",
	"mail.com",
	"yandex.com",
	"yandex.ru",
}

var commonFirstNames = []string{
	"adriana", "adriano", "alan", "alessandra", "alexandre", "alice",
	"aline", "amanda", "ana", "anderson", "andre", "andrea", "antonio",
	"arthur", "beatriz", "benjamin", "bernardo", "bianca", "bruna",
	"bruno", "caio", "camila", "carla", "carlos", "carolina", "caroline",
	"cecilia", "celso", "cesar", "clara", "claudia", "claudio",
	"cristiane", "cristina", "daniel", "daniela", "davi", "david",
	"debora", "diego", "diogo", "douglas", "eduarda", "eduardo",
	"elaine", "eliane", "emanuel", "enzo", "erica", "fabiana", "fabio",
	"felipe", "fernanda", "fernando", "flavia", "flavio", "francisca",
	"francisco", "gabriel", "gabriela", "gilberto", "guilherme",
	"gustavo", "heitor", "helena", "heloisa", "henrique", "hugo", "igor",
	"isabel", "isabela", "jessica", "joana", "joao", "joaquim", "jorge",
	"jose", "josefa", "julia", "juliana", "julio", "karina", "larissa",
	"laura", "leandro", "leonardo", "leticia", "livia", "lorena",
	"lorenzo", "luan", "luana", "lucas", "luciana", "luciano", "luis",
	"luiz", "manoel", "manuela", "marcelo", "marcia", "marcio", "marcos",
	"margarida", "maria", "mariana", "mario", "marta", "mateus",
	"matheus", "mauricio", "michele", "miguel", "monica", "natalia",
	"nicolas", "otavio", "patricia", "paula", "paulo", "pedro",
	"priscila", "rafael", "rafaela", "raimundo", "raquel", "regina",
	"renata", "renato", "ricardo", "rita", "roberta", "roberto",
	"rodrigo", "rogerio", "ronaldo", "rosana", "rui", "sabrina",
	"samuel", "sandra", "sandro", "sebastiao", "sergio", "silvia",
	"simone", "sofia", "sonia", "tatiana", "teresa", "thiago", "tiago",
	"valentina", "vanessa", "vera", "veronica", "vinicius", "vitor",
	"vitoria", "viviane", "wellington", "wesley",
}
