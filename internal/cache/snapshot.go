// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package cache

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"hash/crc32"
	"io"
	"os"
	"time"

	"github.com/pdxcore/atlas/cerrs"
	"github.com/pdxcore/atlas/internal/intern"
	"github.com/pdxcore/atlas/internal/model"
	"github.com/pdxcore/atlas/internal/pdxdomain"
)

// section is one tagged, length-prefixed chunk of the payload that
// follows the header, per spec §3.
type section struct {
	tag  byte
	data []byte
}

// WriteSnapshot encodes store and tbl into path: encode the entity
// sections (which intern their strings into tbl), then the string
// table, compress the payload if requested, compute CRC32 over
// everything after the header, write the header carrying that CRC
// followed by the payload, then atomically rename from a sibling
// *.tmp file.
func WriteSnapshot(path string, store *model.Store, tbl *intern.Table, compression Compression) error {
	provinces := store.Provinces()
	countries := store.Countries()

	// The entity encoders intern strings as they write, so the string
	// table is encoded only after them.
	provData := encodeProvinces(provinces, tbl)
	countryData := encodeCountries(countries, tbl)
	sections := []section{
		{tag: SectionStringTable, data: encodeStringTable(tbl)},
		{tag: SectionProvinces, data: provData},
		{tag: SectionCountries, data: countryData},
		{tag: SectionCrossRefs, data: encodeCrossRefs(store)},
		{tag: SectionEnd, data: nil},
	}

	var payload bytes.Buffer
	for _, sec := range sections {
		writeSectionTo(&payload, sec)
	}

	body := payload.Bytes()
	if compression == Gzip {
		var compressed bytes.Buffer
		gw := gzip.NewWriter(&compressed)
		if _, err := gw.Write(body); err != nil {
			return err
		}
		if err := gw.Close(); err != nil {
			return err
		}
		body = compressed.Bytes()
	}

	crc := crc32.ChecksumIEEE(body)
	h := Header{
		Magic:            Magic,
		Version:          CurrentVersion,
		Compression:      compression,
		CreatedUnix:      nowFunc(),
		ProvinceCount:    int32(len(provinces)),
		CountryCount:     int32(len(countries)),
		StringTableBytes: int32(len(sections[0].data)),
		CRC32:            crc,
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := f.Write(h.encode()); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if _, err := f.Write(body); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// nowFunc supplies the snapshot header's CreatedUnix timestamp
// (time.Now().Unix).
var nowFunc = func() int64 { return time.Now().Unix() }

// ReadSnapshot decodes path into a sealed model.Store and its
// intern.Table, per spec §4.10's read path: validate magic and
// version exactly, decompress if needed, and walk sections by tag,
// skipping anything unrecognised by length.
func ReadSnapshot(path string) (*model.Store, *intern.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if len(raw) < headerSize {
		return nil, nil, cerrs.ErrCacheCorrupt
	}
	h, err := decodeHeader(raw[:headerSize])
	if err != nil {
		return nil, nil, err
	}
	body := raw[headerSize:]
	if crc32.ChecksumIEEE(body) != h.CRC32 {
		return nil, nil, cerrs.ErrCacheChecksum
	}
	if h.Compression == Gzip {
		gr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, nil, cerrs.ErrCacheCorrupt
		}
		decoded, err := io.ReadAll(gr)
		if err != nil {
			return nil, nil, cerrs.ErrCacheCorrupt
		}
		body = decoded
	}

	secs, err := splitSections(body)
	if err != nil {
		return nil, nil, err
	}

	var tbl *intern.Table
	for _, sec := range secs {
		if sec.tag == SectionStringTable {
			tbl = decodeStringTable(sec.data)
			break
		}
	}
	if tbl == nil {
		return nil, nil, cerrs.ErrCacheCorrupt
	}

	store := model.New()
	for _, sec := range secs {
		switch sec.tag {
		case SectionProvinces:
			for _, p := range decodeProvinces(sec.data, tbl) {
				_ = store.PutProvince(p)
			}
		case SectionCountries:
			for _, c := range decodeCountries(sec.data, tbl) {
				_ = store.PutCountry(c)
			}
		case SectionCrossRefs:
			rgb, adj, countryProvs := decodeCrossRefs(sec.data)
			store.RestoreIndices(rgb, adj, countryProvs)
		}
	}
	store.Seal()
	return store, tbl, nil
}

func writeSectionTo(buf *bytes.Buffer, sec section) {
	buf.WriteByte(sec.tag)
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(sec.data)))
	buf.Write(lenBuf[:])
	buf.Write(sec.data)
}

// splitSections walks tag+length-prefixed chunks until SectionEnd or
// the buffer is exhausted. An unrecognised tag is skipped by its
// declared length rather than aborting the read, per spec §4.10.
func splitSections(body []byte) ([]section, error) {
	var out []section
	off := 0
	for off < len(body) {
		if off+5 > len(body) {
			return nil, cerrs.ErrCacheCorrupt
		}
		tag := body[off]
		n := int(binary.LittleEndian.Uint32(body[off+1 : off+5]))
		off += 5
		if off+n > len(body) {
			return nil, cerrs.ErrCacheCorrupt
		}
		out = append(out, section{tag: tag, data: body[off : off+n]})
		off += n
		if tag == SectionEnd {
			break
		}
	}
	return out, nil
}

func encodeStringTable(tbl *intern.Table) []byte {
	w := newWriter(tbl)
	strs := tbl.Strings()
	w.i32(int32(len(strs)))
	for _, s := range strs {
		w.raw(s)
	}
	return w.bytes()
}

func decodeStringTable(data []byte) *intern.Table {
	r := newReader(data, nil)
	n := int(r.i32())
	strs := make([]string, n)
	for i := 0; i < n; i++ {
		strs[i] = r.raw()
	}
	return intern.FromStrings(strs)
}

func encodeModifier(w *writer, m pdxdomain.Modifier_t) {
	w.idx(m.Name)
	w.idx(m.Description)
	w.u8(uint8(m.Kind))
	w.i32(int32(len(m.Effects)))
	for k, v := range m.Effects {
		w.idx(k)
		w.f32(v)
	}
	w.boolean(m.ExpiresAt != nil)
	if m.ExpiresAt != nil {
		w.date(*m.ExpiresAt)
	}
}

func decodeModifier(r *reader) pdxdomain.Modifier_t {
	m := pdxdomain.Modifier_t{
		Name:        r.idx(),
		Description: r.idx(),
		Kind:        pdxdomain.ModifierKind(r.u8()),
	}
	n := int(r.i32())
	if n > 0 {
		m.Effects = make(map[string]float32, n)
	}
	for i := 0; i < n; i++ {
		k := r.idx()
		m.Effects[k] = r.f32()
	}
	if r.boolean() {
		d := r.date()
		m.ExpiresAt = &d
	}
	return m
}

func encodeHistory(w *writer, h []pdxdomain.HistoricalEntry_t) {
	w.i32(int32(len(h)))
	for _, entry := range h {
		w.date(entry.Date)
		w.i32(int32(len(entry.Changes)))
		for _, c := range entry.Changes {
			w.idx(c.Key)
			w.raw(c.Value)
		}
	}
}

func decodeHistory(r *reader) []pdxdomain.HistoricalEntry_t {
	n := int(r.i32())
	if n == 0 {
		return nil
	}
	out := make([]pdxdomain.HistoricalEntry_t, n)
	for i := range out {
		out[i].Date = r.date()
		cn := int(r.i32())
		out[i].Changes = make([]pdxdomain.Change_t, cn)
		for j := range out[i].Changes {
			out[i].Changes[j] = pdxdomain.Change_t{Key: r.idx(), Value: r.raw()}
		}
	}
	return out
}

func encodeProvinces(provinces []*pdxdomain.ProvinceData_t, tbl *intern.Table) []byte {
	w := newWriter(tbl)
	w.i32(int32(len(provinces)))
	for _, p := range provinces {
		w.i32(p.ID)
		w.idx(p.Name)
		w.id(p.Owner)
		w.id(p.Controller)
		w.id(p.Culture)
		w.id(p.Religion)
		w.id(p.TradeGood)
		w.id(p.Terrain)
		w.id(p.Climate)
		w.id(p.TradeNode)
		w.idx(p.Capital)
		w.boolean(p.IsCity)
		w.boolean(p.IsHre)
		w.f32(p.BaseTax)
		w.f32(p.BaseProduction)
		w.f32(p.BaseManpower)
		w.f32(p.ExtraCost)
		w.i32(p.CenterOfTrade)
		w.stringSet(p.Cores)
		w.stringSet(p.Buildings)
		w.stringSet(p.DiscoveredBy)
		w.i32(int32(len(p.Modifiers)))
		for _, m := range p.Modifiers {
			encodeModifier(w, m)
		}
		encodeHistory(w, p.History)
	}
	return w.bytes()
}

func decodeProvinces(data []byte, tbl *intern.Table) []*pdxdomain.ProvinceData_t {
	r := newReader(data, tbl)
	n := int(r.i32())
	out := make([]*pdxdomain.ProvinceData_t, n)
	for i := 0; i < n; i++ {
		p := pdxdomain.NewProvinceData(r.i32())
		p.Name = r.idx()
		p.Owner = r.id()
		p.Controller = r.id()
		p.Culture = r.id()
		p.Religion = r.id()
		p.TradeGood = r.id()
		p.Terrain = r.id()
		p.Climate = r.id()
		p.TradeNode = r.id()
		p.Capital = r.idx()
		p.IsCity = r.boolean()
		p.IsHre = r.boolean()
		p.BaseTax = r.f32()
		p.BaseProduction = r.f32()
		p.BaseManpower = r.f32()
		p.ExtraCost = r.f32()
		p.CenterOfTrade = r.i32()
		p.Cores = r.stringSet()
		p.Buildings = r.stringSet()
		p.DiscoveredBy = r.stringSet()
		mn := int(r.i32())
		if mn > 0 {
			p.Modifiers = make([]pdxdomain.Modifier_t, mn)
			for j := range p.Modifiers {
				p.Modifiers[j] = decodeModifier(r)
			}
		}
		p.History = decodeHistory(r)
		out[i] = p
	}
	return out
}

func encodeCountries(countries []*pdxdomain.CountryData_t, tbl *intern.Table) []byte {
	w := newWriter(tbl)
	w.i32(int32(len(countries)))
	for _, c := range countries {
		w.raw(c.Tag)
		w.idx(c.Name)
		w.id(c.Government)
		w.id(c.PrimaryCulture)
		w.id(c.Religion)
		w.id(c.TechnologyGroup)
		w.i32(c.Capital)
		w.i32(c.FixedCapital)
		w.stringSet(c.AcceptedCultures)
		w.i32(int32(len(c.Ideas)))
		for k, v := range c.Ideas {
			w.idx(k)
			w.i32(v)
		}
		w.stringSet(c.Policies)
		w.stringSet(c.HistoricalFriends)
		w.stringSet(c.HistoricalRivals)
		w.stringSet(c.HistoricalEnemies)
		w.boolean(c.Monarch != nil)
		if c.Monarch != nil {
			w.idx(c.Monarch.Name)
			w.idx(c.Monarch.Dynasty)
			w.i32(int32(c.Monarch.Adm))
			w.i32(int32(c.Monarch.Dip))
			w.i32(int32(c.Monarch.Mil))
			w.id(c.Monarch.Culture)
			w.id(c.Monarch.Religion)
		}
		w.i32(int32(len(c.Modifiers)))
		for _, m := range c.Modifiers {
			encodeModifier(w, m)
		}
		encodeHistory(w, c.History)
	}
	return w.bytes()
}

func decodeCountries(data []byte, tbl *intern.Table) []*pdxdomain.CountryData_t {
	r := newReader(data, tbl)
	n := int(r.i32())
	out := make([]*pdxdomain.CountryData_t, n)
	for i := 0; i < n; i++ {
		c := pdxdomain.NewCountryData(r.raw())
		c.Name = r.idx()
		c.Government = r.id()
		c.PrimaryCulture = r.id()
		c.Religion = r.id()
		c.TechnologyGroup = r.id()
		c.Capital = r.i32()
		c.FixedCapital = r.i32()
		c.AcceptedCultures = r.stringSet()
		in := int(r.i32())
		if in > 0 {
			c.Ideas = make(map[string]int32, in)
		}
		for j := 0; j < in; j++ {
			k := r.idx()
			c.Ideas[k] = r.i32()
		}
		c.Policies = r.stringSet()
		c.HistoricalFriends = r.stringSet()
		c.HistoricalRivals = r.stringSet()
		c.HistoricalEnemies = r.stringSet()
		if r.boolean() {
			c.Monarch = &pdxdomain.Ruler_t{
				Name:     r.idx(),
				Dynasty:  r.idx(),
				Adm:      int(r.i32()),
				Dip:      int(r.i32()),
				Mil:      int(r.i32()),
				Culture:  r.id(),
				Religion: r.id(),
			}
		}
		mn := int(r.i32())
		if mn > 0 {
			c.Modifiers = make([]pdxdomain.Modifier_t, mn)
			for j := range c.Modifiers {
				c.Modifiers[j] = decodeModifier(r)
			}
		}
		c.History = decodeHistory(r)
		out[i] = c
	}
	return out
}

func encodeCrossRefs(store *model.Store) []byte {
	w := newWriter(nil)
	rgb := store.RgbIndex()
	w.i32(int32(len(rgb)))
	for k, v := range rgb {
		w.u32(k)
		w.i32(v)
	}

	adj := store.AdjacencyIndex()
	w.i32(int32(len(adj)))
	for from, rows := range adj {
		w.i32(from)
		w.i32(int32(len(rows)))
		for _, a := range rows {
			w.i32(a.From)
			w.i32(a.To)
			w.u8(uint8(a.Kind))
			w.i32(a.Through)
			w.i32(a.Start.X)
			w.i32(a.Start.Y)
			w.i32(a.End.X)
			w.i32(a.End.Y)
			w.raw(a.Comment)
		}
	}

	cp := store.CountryProvinceIndex()
	w.i32(int32(len(cp)))
	for tag, ids := range cp {
		w.raw(tag)
		w.i32(int32(len(ids)))
		for _, id := range ids {
			w.i32(id)
		}
	}
	return w.bytes()
}

func decodeCrossRefs(data []byte) (map[uint32]int32, map[int32][]pdxdomain.Adjacency_t, map[string][]int32) {
	r := newReader(data, nil)

	rn := int(r.i32())
	rgb := make(map[uint32]int32, rn)
	for i := 0; i < rn; i++ {
		k := r.u32()
		rgb[k] = r.i32()
	}

	an := int(r.i32())
	adj := make(map[int32][]pdxdomain.Adjacency_t, an)
	for i := 0; i < an; i++ {
		from := r.i32()
		rows := int(r.i32())
		list := make([]pdxdomain.Adjacency_t, rows)
		for j := range list {
			list[j] = pdxdomain.Adjacency_t{
				From:    r.i32(),
				To:      r.i32(),
				Kind:    pdxdomain.AdjacencyKind(r.u8()),
				Through: r.i32(),
				Start:   pdxdomain.Point_t{X: r.i32(), Y: r.i32()},
				End:     pdxdomain.Point_t{X: r.i32(), Y: r.i32()},
				Comment: r.raw(),
			}
		}
		adj[from] = list
	}

	cn := int(r.i32())
	countryProvs := make(map[string][]int32, cn)
	for i := 0; i < cn; i++ {
		tag := r.raw()
		n := int(r.i32())
		ids := make([]int32, n)
		for j := range ids {
			ids[j] = r.i32()
		}
		countryProvs[tag] = ids
	}

	return rgb, adj, countryProvs
}

