package model

import (
	"iter"
	"strings"
)

// Entry представляет одну запись конфигурации
type Entry struct {
	Name    string // Оригинальное имя ключа из спецификации (может содержать дефисы)
	Value   Value  // Значение
	Type    Type   // Объявленный или выведенный тип
	Comment string // Комментарий перед записью, строки без префикса '#'
	Source  string // Источник, в котором запись определена последней
	Line    int    // Строка определения в источнике
}

// Table хранит записи и вложенные таблицы в порядке добавления
type Table struct {
	Name    string
	Comment string

	entries    []*Entry
	entryIndex map[string]int
	tables     []*Table
	tableIndex map[string]int
}

// NewTable создаёт пустую таблицу
func NewTable(name string) *Table {
	return &Table{
		Name:       name,
		entryIndex: make(map[string]int),
		tableIndex: make(map[string]int),
	}
}

// Entry возвращает запись таблицы по имени
func (t *Table) Entry(name string) (*Entry, bool) {
	i, ok := t.entryIndex[name]
	if !ok {
		return nil, false
	}
	return t.entries[i], true
}

// Table возвращает вложенную таблицу по имени
func (t *Table) Table(name string) (*Table, bool) {
	i, ok := t.tableIndex[name]
	if !ok {
		return nil, false
	}
	return t.tables[i], true
}

// Entries возвращает записи в порядке добавления
func (t *Table) Entries() []*Entry {
	return t.entries
}

// Tables возвращает вложенные таблицы в порядке добавления
func (t *Table) Tables() []*Table {
	return t.tables
}

// setEntry заменяет запись на месте или добавляет её в конец
func (t *Table) setEntry(e *Entry) {
	if i, ok := t.entryIndex[e.Name]; ok {
		t.entries[i] = e
		return
	}
	t.entryIndex[e.Name] = len(t.entries)
	t.entries = append(t.entries, e)
}

func (t *Table) removeEntry(name string) (*Entry, bool) {
	i, ok := t.entryIndex[name]
	if !ok {
		return nil, false
	}
	e := t.entries[i]
	t.entries = append(t.entries[:i:i], t.entries[i+1:]...)
	delete(t.entryIndex, name)
	for j := i; j < len(t.entries); j++ {
		t.entryIndex[t.entries[j].Name] = j
	}
	return e, true
}

func (t *Table) addTable(name string) *Table {
	sub := NewTable(name)
	t.tableIndex[name] = len(t.tables)
	t.tables = append(t.tables, sub)
	return sub
}

func (t *Table) clone() *Table {
	out := NewTable(t.Name)
	out.Comment = t.Comment
	for _, e := range t.entries {
		c := *e
		out.setEntry(&c)
	}
	for _, sub := range t.tables {
		c := sub.clone()
		out.tableIndex[c.Name] = len(out.tables)
		out.tables = append(out.tables, c)
	}
	return out
}

// Config корень дерева конфигурации: безымянная таблица с вложенными таблицами
type Config struct {
	Source string // Имя источника, из которого построено дерево
	root   *Table
}

// NewConfig создаёт пустую конфигурацию
func NewConfig(source string) *Config {
	return &Config{Source: source, root: NewTable("")}
}

// Root возвращает корневую таблицу
func (c *Config) Root() *Table {
	return c.root
}

// Clone возвращает независимую копию дерева
func (c *Config) Clone() *Config {
	return &Config{Source: c.Source, root: c.root.clone()}
}

// SplitPath делит точечный путь на сегменты
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// JoinPath собирает точечный путь из сегментов
func JoinPath(segments ...string) string {
	var parts []string
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ".")
}

func notFound(path string) error {
	return &Error{Err: ErrPathNotFound, Path: path}
}

// LookupTable находит таблицу по точечному пути, пустой путь означает корень
func (c *Config) LookupTable(path string) (*Table, error) {
	t := c.root
	for _, seg := range SplitPath(path) {
		sub, ok := t.Table(seg)
		if !ok {
			return nil, notFound(path)
		}
		t = sub
	}
	return t, nil
}

// Lookup находит запись по точечному пути.
// Возвращённый указатель позволяет изменять запись на месте.
func (c *Config) Lookup(path string) (*Entry, error) {
	segs := SplitPath(path)
	if len(segs) == 0 {
		return nil, notFound(path)
	}
	t, err := c.LookupTable(JoinPath(segs[:len(segs)-1]...))
	if err != nil {
		return nil, notFound(path)
	}
	e, ok := t.Entry(segs[len(segs)-1])
	if !ok {
		return nil, notFound(path)
	}
	return e, nil
}

// Has сообщает, существует ли запись по пути
func (c *Config) Has(path string) bool {
	_, err := c.Lookup(path)
	return err == nil
}

// EnsureTable возвращает таблицу по пути, создавая недостающие таблицы.
// Сегмент, занятый записью, не может стать таблицей.
func (c *Config) EnsureTable(path string) (*Table, error) {
	t := c.root
	var walked []string
	for _, seg := range SplitPath(path) {
		walked = append(walked, seg)
		if e, ok := t.Entry(seg); ok {
			return nil, &Error{
				Err:      ErrConflictingType,
				Path:     JoinPath(walked...),
				Expected: "table",
				Actual:   e.Type.String(),
				Source:   e.Source,
			}
		}
		sub, ok := t.Table(seg)
		if !ok {
			sub = t.addTable(seg)
		}
		t = sub
	}
	return t, nil
}

// Insert добавляет запись по пути или заменяет существующую, сохраняя её позицию.
// Новый путь добавляется в конец родительской таблицы.
func (c *Config) Insert(path string, e Entry) error {
	segs := SplitPath(path)
	if len(segs) == 0 {
		return notFound(path)
	}
	t, err := c.EnsureTable(JoinPath(segs[:len(segs)-1]...))
	if err != nil {
		return err
	}
	name := segs[len(segs)-1]
	if _, ok := t.Table(name); ok {
		return &Error{
			Err:      ErrConflictingType,
			Path:     path,
			Expected: "table",
			Actual:   e.Type.String(),
			Source:   e.Source,
		}
	}
	e.Name = name
	t.setEntry(&e)
	return nil
}

// Remove удаляет запись по пути и возвращает её
func (c *Config) Remove(path string) (Entry, error) {
	segs := SplitPath(path)
	if len(segs) == 0 {
		return Entry{}, notFound(path)
	}
	t, err := c.LookupTable(JoinPath(segs[:len(segs)-1]...))
	if err != nil {
		return Entry{}, notFound(path)
	}
	e, ok := t.removeEntry(segs[len(segs)-1])
	if !ok {
		return Entry{}, notFound(path)
	}
	return *e, nil
}

// EntriesOf возвращает записи таблицы по её пути
func (c *Config) EntriesOf(tablePath string) ([]*Entry, error) {
	t, err := c.LookupTable(tablePath)
	if err != nil {
		return nil, err
	}
	return t.Entries(), nil
}

// Tables обходит таблицы в порядке хранения, начиная с корня (путь "").
// Обход однократный: вложенные таблицы идут сразу после родителя.
func (c *Config) Tables() iter.Seq2[string, *Table] {
	return func(yield func(string, *Table) bool) {
		walkTables(c.root, "", yield)
	}
}

func walkTables(t *Table, path string, yield func(string, *Table) bool) bool {
	if !yield(path, t) {
		return false
	}
	for _, sub := range t.tables {
		if !walkTables(sub, JoinPath(path, sub.Name), yield) {
			return false
		}
	}
	return true
}

// All обходит все записи в порядке хранения вместе с их полными путями
func (c *Config) All() iter.Seq2[string, *Entry] {
	return func(yield func(string, *Entry) bool) {
		for path, t := range c.Tables() {
			for _, e := range t.entries {
				if !yield(JoinPath(path, e.Name), e) {
					return
				}
			}
		}
	}
}

// Len возвращает число записей во всём дереве
func (c *Config) Len() int {
	n := 0
	for range c.All() {
		n++
	}
	return n
}
