// Package rag implements the retrieval-augmented prompting pipeline
// behind the chat assistant: keyword extraction, country detection,
// hybrid entry retrieval and prompt assembly.
package rag

import (
	"cartilha-backend/textnorm"
)

// Portuguese function words removed from chat messages before
// retrieval. Kept close to the natural-language list rather than a
// stemmer: retrieval matches entry text literally.
var stopwordList = []string{
	"a", "o", "e", "é", "de", "da", "do", "em", "um", "uma", "para", "com", "não",
	"os", "as", "dos", "das", "no", "na", "por", "mais", "como", "mas", "ao", "ele", "ela",
	"entre", "depois", "sem", "mesmo", "aos", "seus", "quem", "nas", "me", "esse", "eles",
	"você", "essa", "num", "nem", "suas", "meu", "minha", "numa", "pelos", "elas", "qual",
	"lhe", "deles", "essas", "esses", "pelas", "este", "dele", "tu", "te", "vocês", "vos",
	"lhes", "meus", "minhas", "teu", "tua", "teus", "tuas", "nosso", "nossa", "nossos",
	"nossas", "dela", "delas", "esta", "estes", "estas", "aquele", "aquela", "aqueles",
	"aquelas", "isto", "aquilo", "estou", "está", "estamos", "estão", "estive", "esteve",
	"estivemos", "estiveram", "estava", "estávamos", "estavam", "estivera", "estivéramos",
	"esteja", "estejamos", "estejam", "estivesse", "estivéssemos", "estivessem", "estiver",
	"estivermos", "estiverem", "hei", "há", "havemos", "hão", "houve", "houvemos", "houveram",
	"havia", "havíamos", "haviam", "houvera", "houvéramos", "haja", "hajamos", "hajam",
	"houvesse", "houvéssemos", "houvessem", "houver", "houvermos", "houverem", "houverei",
	"houverá", "houveremos", "houverão", "houveria", "houveríamos", "houveriam", "sou", "somos",
	"são", "era", "éramos", "eram", "fui", "foi", "fomos", "foram", "fora", "fôramos", "seja",
	"sejamos", "sejam", "fosse", "fôssemos", "fossem", "for", "formos", "forem", "serei", "será",
	"seremos", "serão", "seria", "seríamos", "seriam", "tenho", "tem", "temos", "tém", "tinha",
	"tínhamos", "tinham", "tive", "teve", "tivemos", "tiveram", "tivera", "tivéramos", "tenha",
	"tenhamos", "tenham", "tivesse", "tivéssemos", "tivessem", "tiver", "tivermos", "tiverem",
	"terei", "terá", "teremos", "terão", "teria", "teríamos", "teriam", "que", "se", "quando",
	"muito", "nos", "já", "eu", "também", "só", "pelo", "pela", "até", "isso",
	"ter", "posso", "pode", "podem", "podemos", "quais", "onde", "porque", "sobre",
}

// Stopwords are matched after normalization, so the set is folded the
// same way the tokens are ("está" and "esta" both block "esta").
var stopwords = func() map[string]struct{} {
	set := make(map[string]struct{}, len(stopwordList))
	for _, w := range stopwordList {
		set[textnorm.Fold(w)] = struct{}{}
	}
	return set
}()

// ExtractKeywords normalizes a chat message into unique search
// keywords, dropping stopwords. Never errors; blank input yields an
// empty slice.
func ExtractKeywords(message string) []string {
	keywords := make([]string, 0)
	seen := make(map[string]struct{})
	for _, tok := range textnorm.Tokens(message) {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
	}
	return keywords
}
