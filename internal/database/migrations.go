package database

// migrationsSQL holds the schema history, applied in version order.
var migrationsSQL = map[int]string{
	1: migrationV1LookupTables,
	2: migrationV2SeedLookupTables,
}

// migrationV1LookupTables creates the region and title-correction tables.
const migrationV1LookupTables = `
CREATE TABLE IF NOT EXISTS region_codes (
    title      TEXT PRIMARY KEY,
    code       TEXT NOT NULL CHECK (length(code) = 1),
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS title_corrections (
    phrase     TEXT PRIMARY KEY,
    title      TEXT NOT NULL,
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// migrationV2SeedLookupTables loads the station's current tables.
// Region titles match the feed exactly; phrases are lowercase.
const migrationV2SeedLookupTables = `
INSERT OR IGNORE INTO region_codes (title, code) VALUES
    ('KC Newspapers', 'k'),
    ('KC Life: Arts & Culture', 'k'),
    ('KC Life: Business', 'k'),
    ('KC Life: Opinion & Politics', 'k'),
    ('KC Life: Sports', 'k'),
    ('KC Life: Community', 'k'),
    ('The Newsroom Hour', 'k');

INSERT OR IGNORE INTO title_corrections (phrase, title) VALUES
    ('african american hour', 'the african american hour'),
    ('discount stores', 'shopping the discount stores'),
    ('playing with words', 'playing with words (poetry)'),
    ('poetry', 'playing with words (poetry)'),
    ('playing with words poetry', 'playing with words (poetry)'),
    ('outside', 'outdoors'),
    ('religion', 'inspiration and religion'),
    ('guide posts', 'guideposts'),
    ('economy news', 'business and economy news'),
    ('business news', 'business and economy news'),
    ('home on the range', 'at home on the range'),
    ('look back', 'a look back'),
    ('the wall street journal', 'wall street journal'),
    ('u.s.a. today', 'usa today'),
    ('new york times', 'the new york times'),
    ('travel', 'sunday new york times - travel'),
    ('magazine', 'sunday new york times - magazine'),
    ('business', 'sunday new york times - business'),
    ('new york times business', 'sunday new york times - business'),
    ('book reviews', 'sunday new york times - book reviews'),
    ('new york times book reviews', 'sunday new york times - book reviews'),
    ('new york times arts', 'sunday new york times - arts'),
    ('sunday travel', 'sunday new york times - travel'),
    ('sunday magazine', 'sunday new york times - magazine'),
    ('sunday business', 'sunday new york times - business'),
    ('sunday new york times business', 'sunday new york times - business'),
    ('sunday book reviews', 'sunday new york times - book reviews'),
    ('sunday new york times book reviews', 'sunday new york times - book reviews'),
    ('sunday new york times arts', 'sunday new york times - arts'),
    ('international news', 'national and international news'),
    ('national news', 'national and international news'),
    ('national and international news', 'national and international news'),
    ('good health', 'to your good health'),
    ('sports', 'sports show'),
    ('readers digest', 'readers digest / saturday eventing post'),
    ('saturday evening post', 'readers digest / saturday evening post'),
    ('the computer show', 'on-line (the computer show)'),
    ('online the computer show', 'on-line (the computer show)'),
    ('online', 'online (the computer show)'),
    ('home and family magazine', 'home & family magazine'),
    ('wichita newspaper', 'wichita eagle'),
    ('wichita newspapers', 'wichita eagle'),
    ('the wichita eagle', 'wichita eagle'),
    ('lawrence times', 'the lawrence times'),
    ('sunflower newspapers', 'sunflower dailies'),
    ('southeast kansas', 'southeast kansas newspapers'),
    ('regional papers western kansas', 'western kansas newspapers'),
    ('regional papers kansas city', 'regional newspapers: kansas city region'),
    ('kansas city regional', 'regional newspapers: kansas city region'),
    ('kansas city metro newspapers', 'regional newspapers: kansas city metro'),
    ('kansas city newspapers', 'kansas city metro newspapers'),
    ('regional papers eastern kansas', 'eastern kansas newspapers'),
    ('eastern kansas', 'eastern kansas newspapers'),
    ('regional news papers central kansas', 'central kansas newspapers'),
    ('breakfast table times lawrence journal world', 'lawrence journal-world'),
    ('breakfast table times lj world', 'lawrence journal-world'),
    ('breakfast table times kc star', 'kansas city metro newspapers'),
    ('breakfast table times kansas city star', 'kansas city metro newspapers'),
    ('central kansas', 'central kansas newspapers'),
    ('missouri newspapers', 'missouri news hour'),
    ('sunday kc star', 'kansas city star - sunday'),
    ('saturday kc star', 'kansas city star - saturday'),
    ('kc star sunday', 'kansas city star - sunday'),
    ('kc star saturday', 'kansas city star - saturday'),
    ('sunday kansas city star', 'kansas city star - sunday'),
    ('saturday kansas city star', 'kansas city star - saturday'),
    ('kansas city star sunday', 'kansas city star - sunday'),
    ('kansas city star saturday', 'kansas city star - saturday'),
    ('sunday capital journal', 'topeka capital journal - sunday'),
    ('saturday capital journal', 'topeka capital journal - saturday'),
    ('sunday topeka capital journal', 'topeka capital journal - sunday'),
    ('saturday topeka capital journal', 'topeka capital journal - saturday'),
    ('topeka capital journal sunday', 'topeka capital journal - sunday'),
    ('topeka capital journal saturday', 'topeka capital journal - saturday'),
    ('capital journal', 'breakfast table times'),
    ('topeka capital journal', 'breakfast table times'),
    ('book hour', 'non-fiction book hour'),
    ('lj world', 'lawrence journal-world'),
    ('kansas city star', 'kansas city metro newspapers'),
    ('t. v. guide', 'tv guide'),
    ('home and family magazines', 'home & family magazine'),
    ('on-line the computer show', 'on-line (the computer show)'),
    ('regional news', 'central kansas newspapers'),
    ('u. s. a. today', 'usa today'),
    ('mystery book hour', 'mystery hour'),
    ('lawrence journal world', 'lawrence journal-world'),
    ('l. j. world', 'lawrence journal-world'),
    ('kansas city life', 'kc life: opinion & politics'),
    ('kc life arts and culture', 'kc life: arts & culture'),
    ('kc life business', 'kc life: business'),
    ('kc life opinion and politics', 'kc life: opinion & politics'),
    ('kc life sports', 'kc life: sports'),
    ('kansas city life arts and culture', 'kc life: arts & culture'),
    ('kansas city life business', 'kc life: business'),
    ('kansas city life opinion and politics', 'kc life: opinion & politics'),
    ('kansas city life sports', 'kc life: sports'),
    ('kc live sports', 'kc life: sports'),
    ('k.c. live sports', 'kc life: sports'),
    ('kansas city live sports', 'kc life: sports'),
    ('newsroom', 'the newsroom hour'),
    ('the newsroom', 'the newsroom hour'),
    ('newsroom hour', 'the newsroom hour'),
    ('pittsburg', 'pittsburg today'),
    ('pittsburgh', 'pittsburg today'),
    ('pittsburgh today', 'pittsburg today');
`
