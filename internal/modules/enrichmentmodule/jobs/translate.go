package jobs

import "strings"

// keywordPT maps provider keywords, which are English, to the Portuguese
// terms quiz answers use.
var keywordPT = map[string]string{
	"revenge":                   "vingança",
	"friendship":                "amizade",
	"thriller":                  "suspense",
	"school":                    "escola",
	"educational":               "educação",
	"family":                    "família",
	"children":                  "crianças",
	"science":                   "ciência",
	"adventure":                 "aventura",
	"fantasy":                   "fantasia",
	"magic":                     "magia",
	"flying":                    "voar",
	"warrior":                   "guerreiro",
	"zombie":                    "zumbi",
	"alien":                     "alienígena",
	"battle":                    "batalha",
	"mystery":                   "mistério",
	"detective":                 "detetive",
	"hero":                      "herói",
	"villain":                   "vilão",
	"love":                      "amor",
	"betrayal":                  "traição",
	"courage":                   "coragem",
	"family bond":               "laços familiares",
	"mythology":                 "mitologia",
	"history":                   "história",
	"space":                     "espaço",
	"robot":                     "robô",
	"future":                    "futuro",
	"past":                      "passado",
	"music":                     "música",
	"dance":                     "dança",
	"forest":                    "floresta",
	"ocean":                     "oceano",
	"island":                    "ilha",
	"journey":                   "jornada",
	"quest":                     "missão",
	"heroism":                   "heroísmo",
	"survival":                  "sobrevivência",
	"technology":                "tecnologia",
	"invention":                 "invenção",
	"horror":                    "terror",
	"ghost":                     "fantasma",
	"dragon":                    "dragão",
	"vampire":                   "vampiro",
	"witch":                     "bruxa",
	"wizard":                    "feiticeiro",
	"magic school":              "escola de magia",
	"teamwork":                  "trabalho em equipe",
	"sports":                    "esportes",
	"competition":               "competição",
	"animal":                    "animal",
	"pet":                       "animal de estimação",
	"nature":                    "natureza",
	"planet":                    "planeta",
	"galaxy":                    "galáxia",
	"superhero":                 "super-herói",
	"villainous":                "malvado",
	"quest for truth":           "busca pela verdade",
	"family drama":              "drama familiar",
	"detective work":            "trabalho de detetive",
	"time":                      "tempo",
	"journey through space":     "viagem pelo espaço",
	"school life":               "vida escolar",
	"imagination":               "imaginação",
	"mystery solving":           "resolução de mistérios",
	"friendship adventure":      "aventura com amigos",
	"sequel":                    "continuação",
	"based on novel or book":    "baseado em romance ou livro",
	"duringcreditsstinger":      "cena durante os créditos",
	"aftercreditsstinger":       "cena pós-créditos",
	"amused":                    "divertido",
	"based on comic":            "baseado em quadrinhos",
	"demon":                     "demônio",
	"hilarious":                 "hilário",
	"woman director":            "diretora",
	"new york city":             "cidade de nova york",
	"marvel cinematic universe": "universo cinematográfico marvel",
	"cliché":                    "clichê",
}

// TranslateKeyword returns the Portuguese form of a provider keyword, or
// the keyword itself when it has none.
func TranslateKeyword(word string) string {
	if pt, ok := keywordPT[strings.ToLower(strings.TrimSpace(word))]; ok {
		return pt
	}
	return word
}

// TranslateKeywords translates every keyword, keeping order.
func TranslateKeywords(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = TranslateKeyword(w)
	}
	return out
}
