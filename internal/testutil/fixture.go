package testutil

// Fixture returns a small, valid content tree keyed by relative path.
//
// It holds two subjects, two teachers, four articles and four system
// articles. The calculus/eva-svobodova association is declared by the
// subject only, so builds report exactly one asymmetry warning.
func Fixture() map[string]string {
	return map[string]string{
		"subjects/linear-algebra/config.json":                linearAlgebra,
		"subjects/linear-algebra/articles/vectors_intro.mdx": vectorsIntro,
		"subjects/linear-algebra/articles/matrices.mdx":      matrices,
		"subjects/calculus/config.json":                      calculus,
		"subjects/calculus/articles/limits.mdx":              limits,
		"teachers/jan-novak/config.json":                     janNovak,
		"teachers/jan-novak/articles/office_hours.mdx":       officeHours,
		"teachers/eva-svobodova/config.json":                 evaSvobodova,
		"system/config.json":                                 system,
	}
}

const linearAlgebra = `{
  "slug": "linear-algebra",
  "name": {"en": "Linear Algebra", "ru": "Линейная алгебра", "cz": "Lineární algebra"},
  "description": {"en": "Vectors and matrices", "ru": "Векторы и матрицы", "cz": "Vektory a matice"},
  "teachers": ["jan-novak"],
  "categories": [
    {"slug": "basics", "name": {"en": "Basics", "ru": "Основы", "cz": "Základy"}, "articles": ["vectors_intro", "matrices"]}
  ],
  "semester": 1,
  "credits": 6,
  "difficulty": "beginner",
  "department": "KMA"
}
`

const calculus = `{
  "slug": "calculus",
  "name": {"en": "Calculus", "ru": "Математический анализ", "cz": "Matematická analýza"},
  "description": {"en": "", "ru": "", "cz": ""},
  "teachers": ["eva-svobodova"],
  "categories": [
    {"name": {"en": "Limits", "ru": "Пределы", "cz": "Limity"}, "articles": ["limits"]}
  ]
}
`

const janNovak = `{
  "slug": "jan-novak",
  "name": {"en": "Jan Novak", "ru": "Ян Новак", "cz": "Jan Novák"},
  "description": {"en": "Algebraist", "ru": "Алгебраист", "cz": "Algebraik"},
  "photo": "/images/jan-novak.jpg",
  "subjects": ["linear-algebra"],
  "ratings": {"overall": 4.6, "quality": 4.8, "difficulty": 3.1, "helpfulness": 4.5, "reviews": 2},
  "keywords": {"en": ["Algebra", "vectors", "algebra"], "ru": ["алгебра"], "cz": ["Algebra"]},
  "contact": {"email": "novak@example.edu", "office": "K-201"},
  "reviews": [
    {"text": {"en": "Clear lectures", "ru": "Понятные лекции", "cz": "Srozumitelné přednášky"}, "rating": 5, "date": "2024-02-10"}
  ],
  "sections": [
    {"name": {"en": "Consultations", "ru": "Консультации", "cz": "Konzultace"}, "articles": ["office_hours"]}
  ]
}
`

const evaSvobodova = `{
  "slug": "eva-svobodova",
  "name": {"en": "Eva Svobodova", "ru": "Ева Свободова", "cz": "Eva Svobodová"},
  "description": {"en": "", "ru": "", "cz": ""},
  "subjects": [],
  "ratings": {"overall": 4, "quality": 4, "difficulty": 4, "helpfulness": 4, "reviews": 0},
  "keywords": {"en": [], "ru": [], "cz": []}
}
`

const vectorsIntro = `---
title:
  en: Introduction to vectors
  ru: Введение в векторы
  cz: Úvod do vektorů
slug: vectors_intro
author: jan-novak
keywords:
  en: [vector, basis]
  ru: [вектор]
  cz: [vektor]
created: 2024-01-10
updated: 2024-03-01
difficulty: beginner
---
import Callout from '../../components/Callout'

# Vectors {#vectors}

A vector is an element of a vector space. Vectors can be added and scaled.

## Basis

<Callout type="info">
Every vector space has a basis.
</Callout>
`

const matrices = `---
title:
  en: Matrices
  ru: Матрицы
  cz: Matice
slug: matrices
author: jan-novak
tutors: [eva-svobodova]
keywords:
  en: [matrix]
  ru: [матрица]
  cz: [matice]
created: 2024-01-12
readTime: 12
prerequisites: [vectors_intro]
---
# Matrices

A matrix is a rectangular array of numbers.
`

const limits = `---
title:
  en: Limits
  ru: Пределы
  cz: Limity
slug: limits
keywords:
  en: [limit]
  ru: [предел]
  cz: [limita]
created: 2024-02-01
---
# Limits

The limit of a sequence describes where it settles.
`

const officeHours = `---
title:
  en: Office hours
  ru: Часы приёма
  cz: Konzultační hodiny
slug: office_hours
author: jan-novak
keywords:
  en: [office]
  ru: [приём]
  cz: [konzultace]
created: 2024-01-05
---
Tuesdays at 14:00 in K-201.
`

const system = `{
  "articles": [
    {"slug": "about", "route": "/about", "name": {"en": "About", "ru": "О портале", "cz": "O portálu"},
     "description": {"en": "What this portal is", "ru": "Что это за портал", "cz": "Co je tento portál"},
     "keywords": {"en": ["about"], "ru": ["о нас"], "cz": ["o nás"]}, "pinned": true, "order": 2},
    {"slug": "faq", "route": "/faq", "name": {"en": "FAQ", "ru": "Вопросы", "cz": "Otázky"},
     "keywords": {"en": ["faq"], "ru": ["вопросы"], "cz": ["otázky"]}, "pinned": true, "order": 1},
    {"slug": "contacts", "route": "/contacts", "name": {"en": "Contacts", "ru": "Контакты", "cz": "Kontakty"},
     "keywords": {"en": [], "ru": [], "cz": []}, "pinned": true},
    {"slug": "privacy", "route": "/privacy", "name": {"en": "Privacy", "ru": "Конфиденциальность", "cz": "Soukromí"},
     "keywords": {"en": [], "ru": [], "cz": []}}
  ]
}
`
